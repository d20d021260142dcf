package domain

import (
	"time"

	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
)

// Visibility controls who may read an owned document.
type Visibility string

const (
	// VisibilityPublic is readable by every authenticated user.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate is readable by the owner only.
	VisibilityPrivate Visibility = "private"
	// VisibilityFriends is stored distinctly but grants the same access as private
	// until a friend graph exists.
	VisibilityFriends Visibility = "friends"
)

// Valid reports whether v is one of the known visibility levels.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityFriends:
		return true
	}
	return false
}

// ParseVisibility resolves a client-supplied value, defaulting empty input to public.
func ParseVisibility(s string) (Visibility, error) {
	if s == "" {
		return VisibilityPublic, nil
	}
	v := Visibility(s)
	if !v.Valid() {
		return "", domainerrors.Validationf("invalid visibility %q: must be public, private, or friends", s)
	}
	return v, nil
}

// Content holds the fields shared by every user-owned document.
// OwnerID is set from the authenticated identity on creation and never changes.
type Content struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewContent initializes ownership and timestamps for a fresh document.
func NewContent(id, ownerID string, visibility Visibility) Content {
	now := time.Now()
	return Content{
		ID:         id,
		OwnerID:    ownerID,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch updates UpdatedAt. Call it whenever the document changes.
func (c *Content) Touch() {
	c.UpdatedAt = time.Now()
}

// Owner returns the owning user id.
func (c *Content) Owner() string {
	return c.OwnerID
}

// IsPublic reports whether the document is visible to everyone.
func (c *Content) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}
