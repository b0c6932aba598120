package service

import (
	"fmt"
	"net/http"
)

// StoreError is returned for any failed store round trip: transport,
// authorization, not-found or validation. Callers that only show a generic
// message need not inspect it further.
type StoreError struct {
	Op         string // operation name, e.g. "list", "create"
	ID         int    // task id, 0 when not applicable
	StatusCode int    // HTTP status, 0 for transport failures
	Err        error
}

func (e *StoreError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("store: %s %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotFound reports whether the store answered 404.
func (e *StoreError) NotFound() bool { return e.StatusCode == http.StatusNotFound }
