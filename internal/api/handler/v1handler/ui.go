package v1handler

import (
	"net/http"
	"storefront/pkg/controller"
	"storefront/pkg/serrors"
	"storefront/pkg/ui"

	"github.com/go-faster/jx"
)

func sessionState(r *http.Request) (*ui.State, error) {
	st, ok := ui.Use(r.Context())
	if !ok {
		return nil, serrors.With(serrors.ErrInternal, "no ui state bound to request")
	}

	return st, nil
}

// GetUIState returns the caller's UI state.
func (h *Handler) GetUIState(w http.ResponseWriter, r *http.Request) error {
	st, err := sessionState(r)
	if err != nil {
		return err
	}

	return controller.JSON(w, r, http.StatusOK, st.Snapshot())
}

// decodeMiniCart reads {"open": bool}. Unknown fields are ignored.
func decodeMiniCart(body []byte) (bool, error) {
	var (
		open  bool
		found bool
	)
	err := jx.DecodeBytes(body).ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "open" {
			return d.Skip()
		}
		v, err := d.Bool()
		if err != nil {
			return err
		}
		open, found = v, true

		return nil
	})
	if err != nil {
		return false, serrors.Wrap(serrors.ErrBadRequest, err, `body must be {"open": boolean}`)
	}
	if !found {
		return false, serrors.With(serrors.ErrBadRequest, `body must be {"open": boolean}`)
	}

	return open, nil
}

// SetMiniCart opens or closes the caller's mini-cart and returns the new state.
func (h *Handler) SetMiniCart(w http.ResponseWriter, r *http.Request) error {
	st, err := sessionState(r)
	if err != nil {
		return err
	}

	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	open, err := decodeMiniCart(body)
	if err != nil {
		return err
	}

	st.SetMiniCartOpen(open)

	return controller.JSON(w, r, http.StatusOK, st.Snapshot())
}

// EndSession forgets the caller's UI state and expires the session cookie.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) error {
	if id, ok := controller.GetSessionID(r.Context()); ok {
		h.deps.Sessions.Forget(id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.deps.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)

	return nil
}
