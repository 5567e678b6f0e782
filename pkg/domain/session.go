package domain

import "github.com/google/uuid"

// SessionID identifies one client session of the storefront UI.
// UI state such as the mini-cart visibility is scoped to a session.
type SessionID string

// NewSessionID returns a random session ID.
func NewSessionID() SessionID { return SessionID(uuid.NewString()) }
