package transform

import (
	"errors"

	"github.com/artisania/storefront/internal/api"
)

// ErrorMessage flattens any error from the API layer into one user-facing
// string. Server-provided text wins, then the error's own message, then the
// taxonomy's canned message for the failure class, then a generic fallback.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.ServerMessage != "" {
			return apiErr.ServerMessage
		}
		return api.DefaultMessage(apiErr.Kind, apiErr.Status)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return api.MsgUnknown
}
