package domain

import "fmt"

// BackendError carries a failure reported by the grievance backend. Message
// is the backend-provided human-readable string when one was present in the
// response body, surfaced verbatim to the student.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}
