package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductID uniquely identifies a catalog product.
// It wraps uuid.UUID to provide type safety at the domain layer.
type ProductID uuid.UUID

// ParseProductID parses the textual UUID form of a product ID.
func ParseProductID(s string) (ProductID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ProductID{}, fmt.Errorf("could not parse product id: %w", err)
	}

	return ProductID(id), nil
}

// NewProductID returns a random product ID.
func NewProductID() ProductID { return ProductID(uuid.New()) }

func (id ProductID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the ID is unset.
func (id ProductID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText encodes the ID in its canonical UUID form.
func (id ProductID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText decodes a canonical UUID.
func (id *ProductID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return fmt.Errorf("could not parse product id: %w", err)
	}
	*id = ProductID(u)

	return nil
}

// Product is a catalog entry. Price is stored in minor currency units; no pricing
// rules are applied to it.
type Product struct {
	// ID is the unique identifier of the product.
	ID ProductID `json:"id"`
	// Name is the display name of the product.
	Name string `json:"name"`
	// Description is free text shown on the product page.
	Description string `json:"description,omitempty"`
	// Price is the listed price in minor units (e.g. cents).
	Price int64 `json:"price"`

	// CreatedAt is the time the product was added.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time the product was last changed; zero when never updated.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// MaxProductNameLength bounds Product.Name in runes.
const MaxProductNameLength = 200

// Validate reports the first field that makes p unsuitable for storing.
func (p *Product) Validate() error {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return fmt.Errorf("name is required")
	case len([]rune(name)) > MaxProductNameLength:
		return fmt.Errorf("name must be at most %d characters", MaxProductNameLength)
	case p.Price < 0:
		return fmt.Errorf("price must not be negative")
	}

	return nil
}
