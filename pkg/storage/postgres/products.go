package postgres

import (
	"context"
	"fmt"
	"storefront/pkg/domain"
	"storefront/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	productsTable = "products"
)

func (p *PgSQL) StoreProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var row PgProduct
	row.FromDomain(product)

	var result PgProduct
	found, err := p.Builder.Insert(productsTable).
		Rows(row).
		Returning(&PgProduct{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store product into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store product into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// ProductByID returns a product by its ID, excluding soft-deleted rows.
func (p *PgSQL) ProductByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var row PgProduct
	found, err := p.Builder.From(productsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch product by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// Products returns products listed after the optional cursor, ordered by
// created_at DESC, id DESC. Rows sharing a created_at are split by id.
func (p *PgSQL) Products(ctx context.Context, cursor storage.ProductCursor, limit uint) (storage.ProductPage, error) {
	w := []goqu.Expression{
		goqu.I("deleted_at").IsNull(),
	}
	if !cursor.IsZero() {
		w = append(w, goqu.L("(created_at, id) < (?, ?)", cursor.CreatedAt, uuid.UUID(cursor.ID)))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(productsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgProduct
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.ProductPage{}, fmt.Errorf("could not fetch products from pg: %w", err)
	}

	products := pgProductsToDomain(rows)

	var nextCursor *storage.ProductCursor
	if uint(len(products)) > limit {
		products = products[:limit]
		if limit > 0 {
			next := storage.CursorAt(products[len(products)-1])
			nextCursor = &next
		}
	}

	return storage.ProductPage{
		Products:   products,
		NextCursor: nextCursor,
	}, nil
}

// UpdateProduct sets the provided fields and updated_at on a live product.
func (p *PgSQL) UpdateProduct(
	ctx context.Context,
	id domain.ProductID,
	updates storage.ProductUpdates) (*domain.Product, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Name != nil {
		rec["name"] = *updates.Name
	}
	if updates.Description != nil {
		rec["description"] = *updates.Description
	}
	if updates.Price != nil {
		rec["price"] = *updates.Price
	}

	var row PgProduct
	found, err := p.Builder.Update(productsTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgProduct{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update product in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DeleteProduct performs a soft delete by setting the deleted_at timestamp.
func (p *PgSQL) DeleteProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var row PgProduct
	found, err := p.Builder.Update(productsTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgProduct{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete product in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}
