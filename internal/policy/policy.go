// Package policy decides who may read, list, and mutate user-owned content.
//
// Every decision is a pure function of the stored document and the requesting
// user id. Rules are fixed per entity; there is no configurable policy engine.
package policy

import (
	"fmt"
	"strings"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// Decision is the outcome of an access check.
type Decision bool

const (
	// Allow grants access.
	Allow Decision = true
	// Deny refuses access.
	Deny Decision = false
)

// Owned is implemented by every document that has an owner and a visibility.
type Owned interface {
	Owner() string
	IsPublic() bool
}

// CanRead allows a single-item read when the item is public or the requester owns it.
// Private and friends-only items are owner-only.
func CanRead(item Owned, requesterID string) Decision {
	if item.IsPublic() {
		return Allow
	}
	return Decision(SameUser(item.Owner(), requesterID))
}

// CanMutate allows update and delete only for the owner of the persisted document.
func CanMutate(ownerRef any, requesterID string) Decision {
	return Decision(SameUser(ownerRef, requesterID))
}

// OwnerMe is the list parameter value that selects the requester's own content.
const OwnerMe = "me"

// ListFilter restricts a list query.
// OwnerID empty means any owner; PublicOnly hides non-public items.
type ListFilter struct {
	OwnerID    string
	PublicOnly bool
}

// ForOwnerParam builds the list filter for an owner/author query parameter.
//
//	absent -> public items from everyone
//	"me"   -> every item owned by the requester
//	X      -> public items owned by X
func ForOwnerParam(ownerParam, requesterID string) ListFilter {
	ownerParam = strings.TrimSpace(ownerParam)
	switch ownerParam {
	case "":
		return ListFilter{PublicOnly: true}
	case OwnerMe:
		return ListFilter{OwnerID: requesterID}
	default:
		return ListFilter{OwnerID: ownerParam, PublicOnly: true}
	}
}

// PublicOf returns the filter for another user's reading list: always public only,
// even when userID is the requester.
func PublicOf(userID string) ListFilter {
	return ListFilter{OwnerID: strings.TrimSpace(userID), PublicOnly: true}
}

// Matches reports whether item passes the filter.
func (f ListFilter) Matches(item Owned) bool {
	if f.OwnerID != "" && !SameUser(item.Owner(), f.OwnerID) {
		return false
	}
	if f.PublicOnly && !item.IsPublic() {
		return false
	}
	return true
}

// SameUser compares two owner references after canonicalizing both.
// Empty ids never match.
func SameUser(a, b any) bool {
	ca, cb := Canonical(a), Canonical(b)
	return ca != "" && ca == cb
}

// Canonical reduces an owner reference to its trimmed id string.
// Accepted forms: string, *string, domain.User, *domain.User, anything with an
// Owner() or ID() method, and fmt.Stringer. An Identity is deliberately not an
// owner reference: its uid is external, while owners hold internal user ids.
func Canonical(ref any) string {
	switch v := ref.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	case domain.User:
		return strings.TrimSpace(v.ID)
	case *domain.User:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(v.ID)
	case interface{ Owner() string }:
		return strings.TrimSpace(v.Owner())
	case interface{ ID() string }:
		return strings.TrimSpace(v.ID())
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}
