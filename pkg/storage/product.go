package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"storefront/pkg/domain"
	"strings"
	"time"
)

// ProductUpdates describes a set of optional fields that can be applied to an
// existing product. Only non-nil fields are updated.
type ProductUpdates struct {
	Name        *string
	Description *string
	Price       *int64
}

// IsEmpty reports whether no field would change.
func (u ProductUpdates) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil
}

// Apply returns a copy of p with the non-nil fields of u set.
func (u ProductUpdates) Apply(p domain.Product) domain.Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}

	return p
}

// ProductCursor is a keyset position in the listing order (created_at DESC, id DESC).
// The zero cursor starts at the newest product.
type ProductCursor struct {
	CreatedAt time.Time
	ID        domain.ProductID
}

// CursorAt returns the position of p.
func CursorAt(p domain.Product) ProductCursor {
	return ProductCursor{CreatedAt: p.CreatedAt, ID: p.ID}
}

// IsZero reports whether c is the start of the listing.
func (c ProductCursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID.IsZero()
}

// Follows reports whether p is listed after the position c.
func (c ProductCursor) Follows(p domain.Product) bool {
	if c.IsZero() {
		return true
	}

	return CompareProducts(CursorAt(p), c) > 0
}

// CompareProducts orders two positions in listing order: newest first, ties
// broken by the greater ID first.
func CompareProducts(a, b ProductCursor) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}

	return bytes.Compare(b.ID[:], a.ID[:])
}

var errMalformedCursor = errors.New("malformed cursor")

// MarshalText encodes the cursor as an opaque URL-safe token.
func (c ProductCursor) MarshalText() ([]byte, error) {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "_" + c.ID.String()

	return []byte(base64.RawURLEncoding.EncodeToString([]byte(raw))), nil
}

// UnmarshalText decodes a token produced by MarshalText.
func (c *ProductCursor) UnmarshalText(text []byte) error {
	raw, err := base64.RawURLEncoding.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("%w: %w", errMalformedCursor, err)
	}
	ts, id, ok := strings.Cut(string(raw), "_")
	if !ok {
		return errMalformedCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return fmt.Errorf("%w: %w", errMalformedCursor, err)
	}
	productID, err := domain.ParseProductID(id)
	if err != nil {
		return fmt.Errorf("%w: %w", errMalformedCursor, err)
	}
	*c = ProductCursor{CreatedAt: createdAt, ID: productID}

	return nil
}

// ProductPage groups a page of products together with an optional NextCursor
// used for pagination.
type ProductPage struct {
	// Products contains the current page, newest first.
	Products []domain.Product
	// NextCursor is the position of the last product of the page, to pass as
	// cursor for the next page. It is nil when there is no next page.
	NextCursor *ProductCursor
}

// ProductStorage defines CRUD operations on the product catalog. Lookups that
// find nothing return a nil product and a nil error.
type ProductStorage interface {
	// StoreProduct inserts a product and returns it as stored, including generated
	// ID and CreatedAt.
	StoreProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	// ProductByID fetches a product, or nil when it does not exist.
	ProductByID(ctx context.Context, ID domain.ProductID) (*domain.Product, error)
	// Products returns up to limit products listed after the cursor, newest first.
	// A zero cursor starts at the newest product.
	Products(ctx context.Context, cursor ProductCursor, limit uint) (ProductPage, error)
	// UpdateProduct applies updates to a product, sets UpdatedAt and returns the
	// updated row, or nil when it does not exist.
	UpdateProduct(ctx context.Context, ID domain.ProductID, updates ProductUpdates) (*domain.Product, error)
	// DeleteProduct removes a product and returns it, or nil when it did not exist.
	DeleteProduct(ctx context.Context, ID domain.ProductID) (*domain.Product, error)
}
