package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("supabase: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("supabase: %d %s", e.Status, http.StatusText(e.Status))
}

// IsNotFound reports a missing row, including PostgREST's "single object
// requested, zero rows" shape.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.Status == http.StatusNotFound ||
		(apiErr.Status == http.StatusNotAcceptable && strings.Contains(apiErr.Code, "PGRST")))
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	// PostgREST: {"code": "...", "message": "..."}; GoTrue uses
	// {"error_description": "..."} or {"msg": "..."} depending on endpoint.
	var payload struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		switch {
		case payload.Message != "":
			apiErr.Message = payload.Message
		case payload.Msg != "":
			apiErr.Message = payload.Msg
		case payload.ErrorDescription != "":
			apiErr.Message = payload.ErrorDescription
		}
	}
	return apiErr
}
