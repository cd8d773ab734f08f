package domain

import (
	"context"
	"time"
)

// Remark is a comment attached to a listing. Remarks are append-only:
// there is no update or delete path.
type Remark struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Rating    *int      `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// A remark cannot exist without its listing; deleting the listing
	// cascades here.
	CarID string `gorm:"size:36;not null;index" json:"carId"`
	Car   *Car   `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"-"`

	// The author is optional: if the user is removed the remark stays,
	// author-less.
	UserID *string `gorm:"size:36" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`

	// Author is the resolved public display identity, never persisted.
	Author string `gorm:"-" json:"author,omitempty"`
}

func (Remark) TableName() string { return "remarks" }

type RemarkRepository interface {
	Create(ctx context.Context, r *Remark) error
	// FindByCar returns remarks newest first with their author preloaded.
	FindByCar(ctx context.Context, carID string) ([]Remark, error)
}
