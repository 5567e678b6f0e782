package v1handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"storefront/pkg/domain"
	"storefront/pkg/serrors"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.Status(http.StatusRequestEntityTooLarge, "request body too large")
		}

		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
	}

	return body, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return nil
}

func productID(r *http.Request) (domain.ProductID, error) {
	id, err := domain.ParseProductID(r.PathValue("id"))
	if err != nil {
		return domain.ProductID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid product id")
	}

	return id, nil
}
