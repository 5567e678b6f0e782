// Package domain contains the core domain entities and types used by the
// storefront. These types represent the business concepts (products and UI
// sessions) and are intentionally free of infrastructure concerns so they can
// be shared across packages.
package domain
