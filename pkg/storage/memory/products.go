package memory

import (
	"context"
	"slices"
	"storefront/pkg/domain"
	"storefront/pkg/storage"
	"time"
)

func (m *Memory) StoreProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	unlock := m.write()
	defer unlock()

	if product.ID.IsZero() {
		product.ID = domain.NewProductID()
	}
	product.CreatedAt = m.now().UTC()
	product.UpdatedAt = time.Time{}
	m.products[product.ID] = product

	return &product, nil
}

func (m *Memory) ProductByID(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	unlock := m.read()
	defer unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}

	return &p, nil
}

// Products orders by created_at DESC, id DESC, the same order the postgres
// backend uses.
func (m *Memory) Products(_ context.Context, cursor storage.ProductCursor, limit uint) (storage.ProductPage, error) {
	unlock := m.read()
	rows := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if cursor.Follows(p) {
			rows = append(rows, p)
		}
	}
	unlock()

	slices.SortFunc(rows, func(a, b domain.Product) int {
		return storage.CompareProducts(storage.CursorAt(a), storage.CursorAt(b))
	})

	var nextCursor *storage.ProductCursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		if limit > 0 {
			next := storage.CursorAt(rows[len(rows)-1])
			nextCursor = &next
		}
	}

	return storage.ProductPage{Products: rows, NextCursor: nextCursor}, nil
}

func (m *Memory) UpdateProduct(
	_ context.Context,
	id domain.ProductID,
	updates storage.ProductUpdates) (*domain.Product, error) {
	unlock := m.write()
	defer unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	p = updates.Apply(p)
	p.UpdatedAt = m.now().UTC()
	m.products[id] = p

	return &p, nil
}

func (m *Memory) DeleteProduct(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	unlock := m.write()
	defer unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	delete(m.products, id)

	return &p, nil
}
