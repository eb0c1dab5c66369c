package carbonapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/carbonview/dashboard/internal/domain"
)

// APIError is a non-2xx reply of the carbon backend.
type APIError struct {
	Operation string
	Status    int
	Detail    string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: backend returned status %d: %s", e.Operation, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: backend returned status %d", e.Operation, e.Status)
}

// UserDetail is the backend's explanation, shown next to the page error.
func (e *APIError) UserDetail() string { return e.Detail }

// Is lets errors.Is(err, domain.ErrNotFound) match 404 replies.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotFound && e.Status == http.StatusNotFound
}

func newAPIError(operation string, status int, body []byte) *APIError {
	return &APIError{Operation: operation, Status: status, Detail: parseDetail(body)}
}

// parseDetail reads {"detail": "..."} bodies. Validation errors may carry a
// list of {"msg": ...} objects instead of a string.
func parseDetail(body []byte) string {
	var wire struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return ""
	}
	if len(wire.Detail) == 0 {
		return wire.Error
	}

	var s string
	if err := json.Unmarshal(wire.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(wire.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// StatusOf returns the backend status code carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
