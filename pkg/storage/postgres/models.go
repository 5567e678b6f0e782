package postgres

import (
	"database/sql"
	"storefront/pkg/domain"
	"time"

	"github.com/google/uuid"
)

type PgProduct struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Name        string `db:"name"`
	Description string `db:"description"`
	Price       int64  `db:"price"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgProduct) ToDomain() *domain.Product {
	return &domain.Product{
		ID:          domain.ProductID(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.Time.UTC(),
	}
}

func (p *PgProduct) FromDomain(product domain.Product) {
	*p = PgProduct{
		ID:          uuid.UUID(product.ID),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CreatedAt:   product.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  product.UpdatedAt,
			Valid: !product.UpdatedAt.IsZero(),
		},
	}
}

func pgProductsToDomain(rows []PgProduct) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}
