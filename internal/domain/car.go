package domain

import (
	"context"
	"time"
)

// MaxCarImages caps how many image references one listing may carry.
const MaxCarImages = 10

// Car is a for-sale listing. Price is an integer amount of minor currency
// units (paisa); money never touches a float.
type Car struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	Title       string   `gorm:"size:191;not null" json:"title"`
	Brand       string   `gorm:"size:64;not null" json:"brand"`
	Model       string   `gorm:"size:64;not null" json:"model"`
	Year        int      `gorm:"not null" json:"year"`
	Price       int64    `gorm:"not null" json:"price"`
	Mileage     int      `gorm:"not null" json:"mileage"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Images      []string `gorm:"serializer:json" json:"images"`
	IsSold      bool     `gorm:"not null;default:false" json:"isSold"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Owner is optional: when the owning user is removed the listing
	// survives ownerless (FK set null), it is never cascaded away.
	OwnerID *string `gorm:"size:36;index" json:"-"`
	Owner   *User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`

	Remarks []Remark `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Car) TableName() string { return "cars" }

// OwnedBy reports whether userID is the current owner. An ownerless
// listing belongs to nobody.
func (c *Car) OwnedBy(userID string) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}

type CarRepository interface {
	Create(ctx context.Context, c *Car) error
	// FindAll returns every listing with its owner preloaded, newest first.
	FindAll(ctx context.Context) ([]Car, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Car, error)
	// FindByID returns (nil, nil) when no listing exists.
	FindByID(ctx context.Context, id string) (*Car, error)
	// SaveOwned persists c only if ownerID still owns the row at write
	// time; it reports whether a row was updated.
	SaveOwned(ctx context.Context, c *Car, ownerID string) (bool, error)
	// DeleteOwned removes the listing only if ownerID still owns it;
	// remarks go with it via the store-level cascade.
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}
