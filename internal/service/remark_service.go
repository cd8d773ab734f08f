package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"citydrive-motors/internal/domain"
	"citydrive-motors/pkg/utils"
)

// RemarkService creates and lists remarks. Remarks are append-only: no
// update or delete is exposed.
type RemarkService struct {
	remarks domain.RemarkRepository
	cars    domain.CarRepository
	users   domain.UserRepository
	log     *zap.Logger
}

func NewRemarkService(remarks domain.RemarkRepository, cars domain.CarRepository, users domain.UserRepository, log *zap.Logger) *RemarkService {
	return &RemarkService{remarks: remarks, cars: cars, users: users, log: log}
}

// Create attaches a remark to an existing listing. A missing listing is
// NotFound and nothing is persisted.
func (s *RemarkService) Create(ctx context.Context, carID string, in *domain.CreateRemarkInput, authorID string) (*domain.Remark, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	car, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, domain.ErrNotFound
	}

	rm := &domain.Remark{
		ID:      utils.NewID(),
		Content: strings.TrimSpace(in.Content),
		Rating:  in.Rating,
		CarID:   car.ID,
		UserID:  &authorID,
	}
	if err := s.remarks.Create(ctx, rm); err != nil {
		return nil, err
	}
	if author, err := s.users.FindByID(ctx, authorID); err == nil {
		rm.Author = author.DisplayName()
	}
	s.log.Info("remark created", zap.String("car_id", car.ID), zap.String("remark_id", rm.ID))
	return rm, nil
}

// ListByCar returns a listing's remarks newest first, each author resolved
// to a public display identity. An unknown listing simply has no remarks.
func (s *RemarkService) ListByCar(ctx context.Context, carID string) ([]domain.Remark, error) {
	remarks, err := s.remarks.FindByCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	for i := range remarks {
		remarks[i].Author = remarks[i].User.DisplayName()
	}
	return remarks, nil
}
