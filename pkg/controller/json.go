package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// JSONSender writes payload as a JSON response with the given status.
type JSONSender func(w http.ResponseWriter, status int, payload any) error

// WriteJSON is the base JSONSender. The payload is encoded before anything is
// written so an encoding failure leaves the response untouched.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write response: %w", err)
	}

	return nil
}

// Intercept decorates next so every payload is recorded into rc before being sent.
// Arguments and result pass through unchanged.
func Intercept(next JSONSender, rc *RequestContext) JSONSender {
	return func(w http.ResponseWriter, status int, payload any) error {
		rc.CaptureBody(payload)

		return next(w, status, payload)
	}
}

type senderKey struct{}

// WithJSONSender makes sender the one used by JSON for requests carrying ctx.
func WithJSONSender(ctx context.Context, sender JSONSender) context.Context {
	return context.WithValue(ctx, senderKey{}, sender)
}

// GetJSONSender returns the sender installed in ctx, or WriteJSON.
func GetJSONSender(ctx context.Context) JSONSender {
	if sender, _ := ctx.Value(senderKey{}).(JSONSender); sender != nil {
		return sender
	}

	return WriteJSON
}

// JSON sends payload through the request's JSONSender. Handlers use it for every
// JSON response so the access log can see what was sent.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload any) error {
	return GetJSONSender(r.Context())(w, status, payload)
}
