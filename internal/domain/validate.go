package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// minCarYear is the oldest model year a listing may carry; the upper bound
// is next year's models, computed at validation time.
const minCarYear = 1900

const maxRemarkLen = 2000

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the wire name, not the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// collect folds validator violations into a ValidationError so every bad
// field is reported in a single response.
func collect(ve *ValidationError, err error) {
	if err == nil {
		return
	}
	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		ve.add("_", err.Error())
		return
	}
	for _, fe := range ferrs {
		ve.add(fe.Field(), fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
	}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"omitempty,max=64"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

func (in *RegisterInput) Validate() error {
	ve := newValidationError()
	collect(ve, validate.Struct(in))
	return ve.orNil()
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Validate() error {
	ve := newValidationError()
	collect(ve, validate.Struct(in))
	return ve.orNil()
}

// CreateCarInput carries a full listing. It binds from multipart form
// fields; image references are filled in by the handler after the files
// have been stored.
type CreateCarInput struct {
	Title       string   `form:"title" json:"title" validate:"required,max=191"`
	Brand       string   `form:"brand" json:"brand" validate:"required,max=64"`
	Model       string   `form:"model" json:"model" validate:"required,max=64"`
	Year        int      `form:"year" json:"year"`
	Price       int64    `form:"price" json:"price" validate:"min=0"`
	Mileage     int      `form:"mileage" json:"mileage" validate:"min=0"`
	Description string   `form:"description" json:"description" validate:"omitempty,max=5000"`
	Images      []string `form:"-" json:"images"`
}

func (in *CreateCarInput) Validate() error {
	ve := newValidationError()
	collect(ve, validate.Struct(in))
	checkYear(ve, in.Year)
	if len(in.Images) > MaxCarImages {
		ve.add("images", fmt.Sprintf("at most %d images allowed", MaxCarImages))
	}
	return ve.orNil()
}

// UpdateCarInput is a partial listing patch: only non-nil fields are
// applied, and only present fields are re-validated.
type UpdateCarInput struct {
	Title       *string   `json:"title"`
	Brand       *string   `json:"brand"`
	Model       *string   `json:"model"`
	Year        *int      `json:"year"`
	Price       *int64    `json:"price"`
	Mileage     *int      `json:"mileage"`
	Description *string   `json:"description"`
	Images      *[]string `json:"images"`
	IsSold      *bool     `json:"isSold"`
}

func (in *UpdateCarInput) Validate() error {
	ve := newValidationError()
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		ve.add("title", "must not be empty")
	}
	if in.Brand != nil && strings.TrimSpace(*in.Brand) == "" {
		ve.add("brand", "must not be empty")
	}
	if in.Model != nil && strings.TrimSpace(*in.Model) == "" {
		ve.add("model", "must not be empty")
	}
	if in.Year != nil {
		checkYear(ve, *in.Year)
	}
	if in.Price != nil && *in.Price < 0 {
		ve.add("price", "must not be negative")
	}
	if in.Mileage != nil && *in.Mileage < 0 {
		ve.add("mileage", "must not be negative")
	}
	if in.Images != nil && len(*in.Images) > MaxCarImages {
		ve.add("images", fmt.Sprintf("at most %d images allowed", MaxCarImages))
	}
	return ve.orNil()
}

// Apply copies the present fields onto the listing, leaving the rest
// untouched.
func (in *UpdateCarInput) Apply(c *Car) {
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Brand != nil {
		c.Brand = *in.Brand
	}
	if in.Model != nil {
		c.Model = *in.Model
	}
	if in.Year != nil {
		c.Year = *in.Year
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.Mileage != nil {
		c.Mileage = *in.Mileage
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Images != nil {
		c.Images = *in.Images
	}
	if in.IsSold != nil {
		c.IsSold = *in.IsSold
	}
}

func checkYear(ve *ValidationError, year int) {
	if maxYear := time.Now().Year() + 1; year < minCarYear || year > maxYear {
		ve.add("year", fmt.Sprintf("must be between %d and %d", minCarYear, maxYear))
	}
}

// CreateRemarkInput is the remark payload.
type CreateRemarkInput struct {
	Content string `json:"content"`
	Rating  *int   `json:"rating"`
}

func (in *CreateRemarkInput) Validate() error {
	ve := newValidationError()
	content := strings.TrimSpace(in.Content)
	if content == "" {
		ve.add("content", "must not be empty")
	} else if len(content) > maxRemarkLen {
		ve.add("content", fmt.Sprintf("at most %d characters allowed", maxRemarkLen))
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		ve.add("rating", "must be between 1 and 5")
	}
	return ve.orNil()
}
