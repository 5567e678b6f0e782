// Package v1handler implements the version 1 HTTP API of the storefront.
package v1handler

import (
	"net/http"
	"storefront/pkg/controller"
	"storefront/pkg/storage"
	"storefront/pkg/ui"
)

// Router is the part of *http.ServeMux that Register needs.
type Router interface {
	Handle(pattern string, handler http.Handler)
}

// Deps groups the collaborators of the v1 handlers.
type Deps struct {
	// Storage serves the product catalog.
	Storage storage.Storage
	// Sessions holds the UI state of every session.
	Sessions *ui.Sessions
	// SessionCookie names the cookie identifying a session.
	SessionCookie string
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	if deps.Sessions == nil {
		deps.Sessions = ui.NewSessions()
	}
	if deps.SessionCookie == "" {
		deps.SessionCookie = "storefront_session"
	}

	return &Handler{deps: deps}
}

// Register mounts every v1 route on router, plus the catch-all 404.
func Register(router Router, deps Deps) {
	h := New(deps)
	withSession := controller.WithUIState(h.deps.Sessions, h.deps.SessionCookie)

	router.Handle("GET /healthz", controller.HandlerFunc(h.Health))

	router.Handle("GET /v1/products", controller.HandlerFunc(h.ListProducts))
	router.Handle("POST /v1/products", controller.HandlerFunc(h.CreateProduct))
	router.Handle("GET /v1/products/{id}", controller.HandlerFunc(h.GetProduct))
	router.Handle("PUT /v1/products/{id}", controller.HandlerFunc(h.ReplaceProduct))
	router.Handle("PATCH /v1/products/{id}", controller.HandlerFunc(h.PatchProduct))
	router.Handle("DELETE /v1/products/{id}", controller.HandlerFunc(h.DeleteProduct))

	router.Handle("GET /v1/ui", withSession(controller.HandlerFunc(h.GetUIState)))
	router.Handle("PUT /v1/ui/mini-cart", withSession(controller.HandlerFunc(h.SetMiniCart)))
	router.Handle("DELETE /v1/ui", withSession(controller.HandlerFunc(h.EndSession)))

	router.Handle("/", controller.NotFound())
}

// Health reports that the process is serving requests.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) error {
	return controller.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
