package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCarInputReportsAllViolationsAtOnce(t *testing.T) {
	in := &CreateCarInput{
		Title:   "",
		Brand:   "",
		Model:   "Civic",
		Year:    1800,
		Price:   -1,
		Mileage: -5,
	}
	err := in.Validate()
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	for _, field := range []string{"title", "brand", "year", "price", "mileage"} {
		assert.Contains(t, ve.Fields, field)
	}
	assert.NotContains(t, ve.Fields, "model")
}

func TestCreateCarInputYearBounds(t *testing.T) {
	next := time.Now().Year() + 1
	base := CreateCarInput{Title: "Civic", Brand: "Honda", Model: "Civic", Price: 500000, Mileage: 10000}

	ok := base
	ok.Year = next
	assert.NoError(t, ok.Validate())

	bad := base
	bad.Year = next + 1
	assert.Error(t, bad.Validate())
}

func TestCreateCarInputTooManyImages(t *testing.T) {
	in := &CreateCarInput{Title: "a", Brand: "b", Model: "c", Year: 2020, Price: 1, Mileage: 1}
	in.Images = make([]string, MaxCarImages+1)
	err := in.Validate()
	require.Error(t, err)
	ve := err.(*ValidationError)
	assert.Contains(t, ve.Fields, "images")
}

func TestUpdateCarInputValidatesOnlyPresentFields(t *testing.T) {
	// Nothing present, nothing to reject.
	assert.NoError(t, (&UpdateCarInput{}).Validate())

	badYear := 1800
	negPrice := int64(-1)
	empty := "  "
	in := &UpdateCarInput{Title: &empty, Year: &badYear, Price: &negPrice}
	err := in.Validate()
	require.Error(t, err)
	ve := err.(*ValidationError)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "year")
	assert.Contains(t, ve.Fields, "price")
	assert.NotContains(t, ve.Fields, "mileage")
}

func TestCreateRemarkInput(t *testing.T) {
	assert.Error(t, (&CreateRemarkInput{Content: "   "}).Validate())
	assert.Error(t, (&CreateRemarkInput{Content: strings.Repeat("x", maxRemarkLen+1)}).Validate())

	bad := 6
	assert.Error(t, (&CreateRemarkInput{Content: "nice car", Rating: &bad}).Validate())
	low := 0
	assert.Error(t, (&CreateRemarkInput{Content: "nice car", Rating: &low}).Validate())

	good := 5
	assert.NoError(t, (&CreateRemarkInput{Content: "nice car", Rating: &good}).Validate())
	assert.NoError(t, (&CreateRemarkInput{Content: "nice car"}).Validate())
}

func TestRegisterInput(t *testing.T) {
	err := (&RegisterInput{Email: "not-an-email", Password: "123"}).Validate()
	require.Error(t, err)
	ve := err.(*ValidationError)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")

	assert.NoError(t, (&RegisterInput{Email: "alice@example.com", Password: "secret1", Name: "Alice"}).Validate())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", (&User{Name: "Alice", Email: "alice@example.com"}).DisplayName())
	assert.Equal(t, "alice", (&User{Email: "alice@example.com"}).DisplayName())
	assert.Equal(t, "", (*User)(nil).DisplayName())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}
