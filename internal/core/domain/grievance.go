package domain

import (
	"errors"
	"time"
)

// GrievanceStatus represents the lifecycle state of a grievance. Transitions
// are owned by the backend; this service only ever reads the status.
type GrievanceStatus string

const (
	StatusPending    GrievanceStatus = "Pending"
	StatusInProgress GrievanceStatus = "In Progress"
	StatusResolved   GrievanceStatus = "Resolved"
	StatusRejected   GrievanceStatus = "Rejected"
)

var ErrGrievanceNotFound = errors.New("grievance not found")
var ErrNotWithdrawable = errors.New("only pending grievances can be withdrawn")
var ErrConfirmationRequired = errors.New("withdrawal requires explicit confirmation")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrSessionNotFound = errors.New("session not found")
var ErrNoOfficerAssigned = errors.New("no officer assigned")
var ErrBackendUnavailable = errors.New("backend unavailable")
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")
var ErrPasswordMismatch = errors.New("passwords do not match")

// Withdrawable reports whether the student may still withdraw the grievance.
// The backend enforces the same rule; checking here keeps the action hidden
// from the list view for anything past Pending.
func (s GrievanceStatus) Withdrawable() bool {
	return s == StatusPending
}

// Officer is the read-only projection of the official handling a grievance,
// embedded by the backend once one is assigned.
type Officer struct {
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
}

// Grievance mirrors the backend wire format for a student complaint record.
type Grievance struct {
	ID          string          `json:"_id"`
	Subject     string          `json:"subject"`
	Description string          `json:"description"`
	Status      GrievanceStatus `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	Attachment  string          `json:"attachment,omitempty"`
	HandledBy   *Officer        `json:"handledBy,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
}

// ShortID returns the display form of the grievance identifier used across
// the portal: the last eight characters of the backend id, upper-cased.
func (g Grievance) ShortID() string {
	return shortID(g.ID, 8)
}

// SearchID is the shorter six-character form shown in quick-search results.
func (g Grievance) SearchID() string {
	return shortID(g.ID, 6)
}

func shortID(id string, n int) string {
	if len(id) > n {
		id = id[len(id)-n:]
	}
	b := []byte(id)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
