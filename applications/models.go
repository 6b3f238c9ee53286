// Package applications stores job applications and serves their CRUD endpoints.
// Every operation runs through a Scope bound to one owner, so a caller can only ever
// reach its own records.
package applications

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/jobtrack-go/apperror"
)

// Status is where an application stands in the hiring process.
type Status string

const (
	StatusReviewing    Status = "reviewing"
	StatusInterviewing Status = "interviewing"
	StatusOffered      Status = "offered"
	StatusRejected     Status = "rejected"
)

// Statuses lists every valid Status in pipeline order.
var Statuses = []Status{StatusReviewing, StatusInterviewing, StatusOffered, StatusRejected}

// ParseStatus accepts a status name in any letter case.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Statuses {
		if candidate == st {
			return st, nil
		}
	}
	return "", apperror.NewInvalidInputError(
		fmt.Sprintf("status must be one of reviewing, interviewing, offered, rejected; got %q", s), nil)
}

// Application is one job application. OwnerID is the only link to the account; accounts
// do not hold a list of their applications.
type Application struct {
	ID        uuid.UUID  `json:"id"`
	Company   string     `json:"company"`
	Status    Status     `json:"status"`
	URL       *string    `json:"url"`
	AppliedAt time.Time  `json:"applied_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	OwnerID   uuid.UUID  `json:"-"`
}

// Pagination bounds.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page selects a window of a listing.
type Page struct {
	Offset int
	Limit  int
}

// Validate checks offset >= 0 and 1 <= limit <= MaxLimit.
func (p Page) Validate() error {
	if p.Offset < 0 {
		return apperror.NewInvalidInputError("offset must not be negative", nil)
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return apperror.NewInvalidInputError(fmt.Sprintf("limit must be between 1 and %d", MaxLimit), nil)
	}
	return nil
}
