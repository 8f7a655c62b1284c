// Package web holds the response shapes shared by the module handlers.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/georgemunganga/bookstore-backend/internal/platform/apperr"
)

// ErrorWriter renders a failure for one endpoint family.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err in the plain {"error": "..."} shape used by the auth,
// book, order and user endpoints.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusOf(err)
	msg := "internal server error"
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindInternal {
		msg = e.Message
	} else {
		logInternal(r, err)
	}
	JSON(w, status, map[string]string{"error": msg})
}

// Envelope is the wrapper used by the cart and review endpoints.
type Envelope struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Data      interface{}    `json:"data,omitempty"`
	Error     *EnvelopeError `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// EnvelopeError is the error member of an Envelope.
type EnvelopeError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Now is the clock used for envelope timestamps.
var Now = time.Now

func timestamp() string {
	return Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// EnvelopeFailure writes err as an unsuccessful envelope.
func EnvelopeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusOf(err)
	body := &EnvelopeError{
		Code:    apperr.KindInternal.String(),
		Message: "internal server error",
	}
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindInternal {
		body.Code = e.ErrorCode()
		body.Message = e.Message
		body.Details = e.Details
	} else {
		logInternal(r, err)
	}
	JSON(w, status, Envelope{
		Success:   false,
		Message:   body.Message,
		Error:     body,
		Timestamp: timestamp(),
	})
}

func logInternal(r *http.Request, err error) {
	ctx := r.Context()
	slog.ErrorContext(ctx, "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
}
