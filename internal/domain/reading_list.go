package domain

import (
	"strings"
	"time"

	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
)

// ReadingStatus is the position of a book in a user's reading lifecycle.
type ReadingStatus string

const (
	// StatusInterested marks a book the user wants to read. No dates are required.
	StatusInterested ReadingStatus = "interested"
	// StatusReading requires a start date.
	StatusReading ReadingStatus = "reading"
	// StatusCompleted requires both a start and a completion date.
	StatusCompleted ReadingStatus = "completed"
)

// Lifecycle validation messages. Clients match on these strings.
const (
	MsgStartedAtRequired   = "startedAt date is required when status is 'reading'"
	MsgCompletedDatesNeed  = "startedAt and completedAt dates are required when status is 'completed'"
	MsgCompletedBeforeFrom = "completedAt cannot be earlier than startedAt"
)

// Valid reports whether s is a known status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusInterested, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// ParseReadingStatus validates a client-supplied status.
func ParseReadingStatus(s string) (ReadingStatus, error) {
	status := ReadingStatus(strings.TrimSpace(s))
	if !status.Valid() {
		return "", domainerrors.Validationf("invalid status %q: must be interested, reading, or completed", s)
	}
	return status, nil
}

// ReadingListItem tracks one book on one user's reading list.
// At most one item exists per (owner, volumeId).
type ReadingListItem struct {
	Content
	VolumeID    string        `json:"volumeId"`
	Status      ReadingStatus `json:"status"`
	StartedAt   *time.Time    `json:"startedAt,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// ReadingListPatch is a partial update. Nil pointers and unset Optionals leave
// the stored value unchanged; a null Optional clears the date.
type ReadingListPatch struct {
	Status      *ReadingStatus
	StartedAt   Optional[time.Time]
	CompletedAt Optional[time.Time]
	Visibility  *Visibility
}

// IsEmpty reports whether the patch changes nothing.
func (p ReadingListPatch) IsEmpty() bool {
	return p.Status == nil && !p.StartedAt.Set && !p.CompletedAt.Set && p.Visibility == nil
}

// Merge returns the effective record: the stored item overlaid with the fields
// present in the patch. The receiver is not modified.
func (item ReadingListItem) Merge(p ReadingListPatch) ReadingListItem {
	merged := item
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.Visibility != nil {
		merged.Visibility = *p.Visibility
	}
	merged.StartedAt = p.StartedAt.Apply(item.StartedAt)
	merged.CompletedAt = p.CompletedAt.Apply(item.CompletedAt)
	return merged
}

// Validate checks the status/date invariants on the effective record.
func (item *ReadingListItem) Validate() error {
	if !item.Status.Valid() {
		return domainerrors.Validationf("invalid status %q: must be interested, reading, or completed", item.Status)
	}
	if !item.Visibility.Valid() {
		return domainerrors.Validationf("invalid visibility %q: must be public, private, or friends", item.Visibility)
	}

	switch item.Status {
	case StatusReading:
		if item.StartedAt == nil {
			return domainerrors.Validation(MsgStartedAtRequired)
		}
	case StatusCompleted:
		if item.StartedAt == nil || item.CompletedAt == nil {
			return domainerrors.Validation(MsgCompletedDatesNeed)
		}
	case StatusInterested:
	}

	if item.StartedAt != nil && item.CompletedAt != nil && item.CompletedAt.Before(*item.StartedAt) {
		return domainerrors.Validation(MsgCompletedBeforeFrom)
	}
	return nil
}
