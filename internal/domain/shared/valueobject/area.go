package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Area is a value object representing land area in square feet.
// It is immutable - all operations return new Area instances.
// An Area is never negative; subtraction below zero is an error.
type Area struct {
	value decimal.Decimal
}

// NewArea creates a new Area from a decimal square-feet value
func NewArea(value decimal.Decimal) (Area, error) {
	if value.IsNegative() {
		return Area{}, errors.New("area cannot be negative")
	}
	return Area{value: value}, nil
}

// NewAreaFromFloat creates Area from a float64 value
func NewAreaFromFloat(value float64) (Area, error) {
	return NewArea(decimal.NewFromFloat(value))
}

// NewAreaFromString creates Area from a string representation
func NewAreaFromString(value string) (Area, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Area{}, fmt.Errorf("invalid area string: %w", err)
	}
	return NewArea(d)
}

// MustNewArea creates an Area and panics on error
func MustNewArea(value decimal.Decimal) Area {
	a, err := NewArea(value)
	if err != nil {
		panic(err)
	}
	return a
}

// ZeroArea returns a zero-value Area
func ZeroArea() Area {
	return Area{value: decimal.Zero}
}

// Value returns the decimal square-feet value
func (a Area) Decimal() decimal.Decimal {
	return a.value
}

// IsZero returns true if the area is zero
func (a Area) IsZero() bool {
	return a.value.IsZero()
}

// IsPositive returns true if the area is positive
func (a Area) IsPositive() bool {
	return a.value.IsPositive()
}

// Add returns a new Area with the sum of both areas
func (a Area) Add(other Area) Area {
	return Area{value: a.value.Add(other.value)}
}

// Subtract returns a new Area with the difference.
// Returns an error if the result would be negative.
func (a Area) Subtract(other Area) (Area, error) {
	result := a.value.Sub(other.value)
	if result.IsNegative() {
		return Area{}, fmt.Errorf("area subtraction would be negative: %s - %s", a.value, other.value)
	}
	return Area{value: result}, nil
}

// LessThan returns true if this Area is smaller than the other
func (a Area) LessThan(other Area) bool {
	return a.value.LessThan(other.value)
}

// GreaterThan returns true if this Area is larger than the other
func (a Area) GreaterThan(other Area) bool {
	return a.value.GreaterThan(other.value)
}

// GreaterThanOrEqual returns true if this Area is at least the other
func (a Area) GreaterThanOrEqual(other Area) bool {
	return a.value.GreaterThanOrEqual(other.value)
}

// Equals returns true if both areas are equal
func (a Area) Equals(other Area) bool {
	return a.value.Equal(other.value)
}

// String returns a string representation of the Area
func (a Area) String() string {
	return fmt.Sprintf("%s sqft", a.value.String())
}

// Value implements driver.Valuer for database storage
func (a Area) Value() (driver.Value, error) {
	return a.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (a *Area) Scan(value any) error {
	if value == nil {
		a.value = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Area", value)
	}

	d, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	a.value = d
	return nil
}
