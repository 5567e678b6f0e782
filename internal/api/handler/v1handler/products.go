package v1handler

import (
	"context"
	"net/http"
	"storefront/pkg/controller"
	"storefront/pkg/domain"
	"storefront/pkg/serrors"
	"storefront/pkg/storage"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

func (req productRequest) product() domain.Product {
	return domain.Product{Name: req.Name, Description: req.Description, Price: req.Price}
}

type productPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
}

type productList struct {
	Items      []domain.Product       `json:"items"`
	NextCursor *storage.ProductCursor `json:"nextCursor,omitempty"`
}

func notFound(id domain.ProductID) error {
	return serrors.With(serrors.ErrNotFound, "product %s not found", id)
}

func invalid(err error) error {
	return serrors.With(serrors.ErrBadRequest, "%s", err.Error())
}

// ListProducts pages through the catalog, newest first. The cursor is the
// nextCursor of the previous page.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	limit := uint(defaultPageSize)
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 || n > maxPageSize {
			return serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", maxPageSize)
		}
		limit = uint(n)
	}

	var cursor storage.ProductCursor
	if raw := query.Get("cursor"); raw != "" {
		if err := cursor.UnmarshalText([]byte(raw)); err != nil {
			return serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
	}

	page, err := h.deps.Storage.Products(r.Context(), cursor, limit)
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not list products")
	}

	res := productList{Items: page.Products, NextCursor: page.NextCursor}
	if res.Items == nil {
		res.Items = []domain.Product{}
	}

	return controller.JSON(w, r, http.StatusOK, res)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	product := req.product()
	if err := product.Validate(); err != nil {
		return invalid(err)
	}

	stored, err := h.deps.Storage.StoreProduct(r.Context(), product)
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not store product")
	}

	w.Header().Set("Location", "/v1/products/"+stored.ID.String())

	return controller.JSON(w, r, http.StatusCreated, stored)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	product, err := h.deps.Storage.ProductByID(r.Context(), id)
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not get product")
	}
	if product == nil {
		return notFound(id)
	}

	return controller.JSON(w, r, http.StatusOK, product)
}

// ReplaceProduct overwrites every editable field of a product.
func (h *Handler) ReplaceProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	product := req.product()
	if err := product.Validate(); err != nil {
		return invalid(err)
	}

	updated, err := h.deps.Storage.UpdateProduct(r.Context(), id, storage.ProductUpdates{
		Name:        &product.Name,
		Description: &product.Description,
		Price:       &product.Price,
	})
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not update product")
	}
	if updated == nil {
		return notFound(id)
	}

	return controller.JSON(w, r, http.StatusOK, updated)
}

// PatchProduct changes only the fields present in the body. The merged product
// is validated inside a transaction so concurrent patches cannot interleave.
func (h *Handler) PatchProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	var patch productPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		return err
	}
	updates := storage.ProductUpdates(patch)
	if updates.IsEmpty() {
		return serrors.With(serrors.ErrBadRequest, "no fields to update")
	}

	var updated *domain.Product
	err = h.deps.Storage.WithTx(r.Context(), func(s storage.AllStorage) error {
		p, err := patchProduct(r.Context(), s, id, updates)
		updated = p

		return err
	})
	if err != nil {
		return err
	}

	return controller.JSON(w, r, http.StatusOK, updated)
}

func patchProduct(
	ctx context.Context, s storage.AllStorage, id domain.ProductID, updates storage.ProductUpdates,
) (*domain.Product, error) {
	current, err := s.ProductByID(ctx, id)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not get product")
	}
	if current == nil {
		return nil, notFound(id)
	}

	merged := updates.Apply(*current)
	if err := merged.Validate(); err != nil {
		return nil, invalid(err)
	}

	updated, err := s.UpdateProduct(ctx, id, updates)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not update product")
	}
	if updated == nil {
		return nil, notFound(id)
	}

	return updated, nil
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	deleted, err := h.deps.Storage.DeleteProduct(r.Context(), id)
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not delete product")
	}
	if deleted == nil {
		return notFound(id)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
