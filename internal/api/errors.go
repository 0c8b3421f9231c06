package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure into the storefront's error taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindAuth
	KindValidation
	KindNotFound
	KindServer
)

// Default user-facing messages per failure class.
const (
	MsgNetwork      = "Network error. Please check your internet connection."
	MsgTimeout      = "Request timed out. Please try again."
	MsgUnauthorized = "Please log in to access this feature."
	MsgForbidden    = "You do not have permission to access this resource."
	MsgNotFound     = "The requested resource was not found."
	MsgValidation   = "Please check your input and try again."
	MsgServer       = "Server error. Please try again later."
	MsgUnknown      = "An unexpected error occurred. Please try again."
)

// Error is the transport-boundary error: every failed request surfaces as one
// of these, never as a raw *url.Error or decode failure.
type Error struct {
	Kind          Kind
	Status        int
	ServerMessage string // message the backend sent in the error body, if any
	RequestID     string
}

func (e *Error) Error() string {
	if e.ServerMessage != "" {
		return e.ServerMessage
	}
	return DefaultMessage(e.Kind, e.Status)
}

// KindOf extracts the taxonomy class from any wrapped error chain.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// DefaultMessage returns the canned text for a failure class. For KindAuth the
// status distinguishes "log in" (401) from "forbidden" (403).
func DefaultMessage(kind Kind, status int) string {
	switch kind {
	case KindNetwork:
		return MsgNetwork
	case KindTimeout:
		return MsgTimeout
	case KindAuth:
		if status == http.StatusForbidden {
			return MsgForbidden
		}
		return MsgUnauthorized
	case KindNotFound:
		return MsgNotFound
	case KindValidation:
		return MsgValidation
	case KindServer:
		return MsgServer
	default:
		return MsgUnknown
	}
}

func errorFromStatus(status int, body, requestID string) *Error {
	kind := KindUnknown
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindValidation
	case status >= 500:
		kind = KindServer
	}
	return &Error{
		Kind:          kind,
		Status:        status,
		ServerMessage: messageFromBody(body),
		RequestID:     requestID,
	}
}

// messageFromBody pulls the human-readable message out of a JSON error body.
// Anything else (HTML error pages, truncated bodies) reads as empty so the
// canned message is used instead.
func messageFromBody(body string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func wrapRequest(method, path string, err error) error {
	return fmt.Errorf("%s %s: %w", method, path, err)
}
