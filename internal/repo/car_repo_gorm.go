package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"citydrive-motors/internal/domain"
)

type CarRepo struct{ db *gorm.DB }

func NewCarRepo(db *gorm.DB) *CarRepo { return &CarRepo{db: db} }

// publicUser strips the credential column from a preloaded owner; only
// the public identity ever leaves the repository.
func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "email", "name", "phone", "created_at", "updated_at")
}

func (r *CarRepo) Create(ctx context.Context, c *domain.Car) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CarRepo) FindAll(ctx context.Context) ([]domain.Car, error) {
	var cars []domain.Car
	err := r.db.WithContext(ctx).
		Preload("Owner", publicUser).
		Order("created_at DESC").
		Find(&cars).Error
	return cars, err
}

func (r *CarRepo) FindByOwner(ctx context.Context, ownerID string) ([]domain.Car, error) {
	var cars []domain.Car
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&cars).Error
	return cars, err
}

func (r *CarRepo) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	var c domain.Car
	err := r.db.WithContext(ctx).Preload("Owner", publicUser).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveOwned writes the mutable columns with the owner re-asserted in the
// WHERE clause, so a concurrent delete or ownership change between the
// authorization check and this write cannot slip through. Zero rows
// affected means the precondition no longer holds.
func (r *CarRepo) SaveOwned(ctx context.Context, c *domain.Car, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Car{ID: c.ID}).
		Where("owner_id = ?", ownerID).
		Select("Title", "Brand", "Model", "Year", "Price", "Mileage", "Description", "Images", "IsSold").
		Updates(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteOwned hard-deletes the listing, again with the owner in the WHERE
// clause. Remarks go with it through the store-level cascade; the owning
// user is never touched.
func (r *CarRepo) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Car{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
