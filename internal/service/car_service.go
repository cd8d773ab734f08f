package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"citydrive-motors/internal/core/cache"
	"citydrive-motors/internal/domain"
	"citydrive-motors/pkg/utils"
)

const feedCacheKey = "cars:feed"

// CarService orchestrates the listing lifecycle and enforces the
// ownership invariant: only the current owner, re-read from the store on
// every call, may mutate a listing.
type CarService struct {
	cars    domain.CarRepository
	cache   *cache.Cache // nil disables feed caching
	feedTTL time.Duration
	log     *zap.Logger
}

func NewCarService(cars domain.CarRepository, c *cache.Cache, feedTTL time.Duration, log *zap.Logger) *CarService {
	return &CarService{cars: cars, cache: c, feedTTL: feedTTL, log: log}
}

// Create persists a new listing owned by ownerID. Image payloads were
// already written by the file store; only their reference strings arrive
// here, this service does no file I/O.
func (s *CarService) Create(ctx context.Context, in *domain.CreateCarInput, ownerID string) (*domain.Car, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	c := &domain.Car{
		ID:          utils.NewID(),
		Title:       in.Title,
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        in.Year,
		Price:       in.Price,
		Mileage:     in.Mileage,
		Description: in.Description,
		Images:      images,
		IsSold:      false,
		OwnerID:     &ownerID,
	}
	if err := s.cars.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	s.log.Info("car created", zap.String("car_id", c.ID), zap.String("owner_id", ownerID))
	return s.FindOne(ctx, c.ID)
}

// FindAll is the public feed, owner identity included. Served through the
// redis read-through cache when one is configured.
func (s *CarService) FindAll(ctx context.Context) ([]domain.Car, error) {
	if s.cache == nil {
		return s.cars.FindAll(ctx)
	}
	out, err := cache.GetOrLoadJSON[[]domain.Car](s.cache, ctx, feedCacheKey, s.feedTTL,
		func(ctx context.Context) (*[]domain.Car, error) {
			cars, err := s.cars.FindAll(ctx)
			if err != nil {
				return nil, err
			}
			return &cars, nil
		})
	if err != nil {
		// Cache trouble must not take the feed down.
		s.log.Warn("feed cache read failed", zap.Error(err))
		return s.cars.FindAll(ctx)
	}
	if out == nil {
		return []domain.Car{}, nil
	}
	return *out, nil
}

// FindMine returns the caller's listings, newest first.
func (s *CarService) FindMine(ctx context.Context, ownerID string) ([]domain.Car, error) {
	return s.cars.FindByOwner(ctx, ownerID)
}

func (s *CarService) FindOne(ctx context.Context, id string) (*domain.Car, error) {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// authorize is the access gate: it re-reads the listing and decides
// whether requesterID may mutate it. Existence is checked before
// ownership, so NotFound always wins over Forbidden. Client-supplied
// owner ids are never consulted.
func (s *CarService) authorize(ctx context.Context, id, requesterID string) (*domain.Car, error) {
	c, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(requesterID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// Update applies a partial patch after passing the access gate. The write
// re-asserts ownership at the row level, which closes the window between
// check and act.
func (s *CarService) Update(ctx context.Context, id string, in *domain.UpdateCarInput, requesterID string) (*domain.Car, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.authorize(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	in.Apply(c)

	ok, err := s.cars.SaveOwned(ctx, c, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: the row vanished or changed hands after the gate.
		return nil, s.recheck(ctx, id)
	}
	s.invalidateFeed(ctx)
	return s.FindOne(ctx, id)
}

// Remove hard-deletes an owned listing; its remarks cascade away at the
// store level, the owning user is untouched.
func (s *CarService) Remove(ctx context.Context, id, requesterID string) error {
	if _, err := s.authorize(ctx, id, requesterID); err != nil {
		return err
	}
	ok, err := s.cars.DeleteOwned(ctx, id, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return s.recheck(ctx, id)
	}
	s.invalidateFeed(ctx)
	s.log.Info("car deleted", zap.String("car_id", id))
	return nil
}

// recheck decides which failure to surface when an owner-conditioned
// write hit zero rows: gone entirely means NotFound, still there means
// ownership changed underneath us.
func (s *CarService) recheck(ctx context.Context, id string) error {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return domain.ErrForbidden
}

func (s *CarService) invalidateFeed(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, feedCacheKey)
	}
}
