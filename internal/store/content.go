package store

import (
	"cmp"
	"context"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/policy"
)

// ContentFilter selects owned documents for a list query.
// Owner and visibility rules come from the embedded policy filter.
type ContentFilter struct {
	policy.ListFilter
	// TitleContains is a case-insensitive substring match on the title.
	TitleContains string
	Page          PageParams
}

func (f ContentFilter) matches(c *domain.Content, title string) bool {
	return f.Matches(c) && containsFold(title, f.TitleContains)
}

// findContent runs a ContentFilter against an owned entity, newest first.
// When the filter names an owner the scan uses the "owner" lookup index.
func findContent[T any](ctx context.Context, e *Entity[T], content func(*T) *domain.Content, title func(*T) string, f ContentFilter) (*PagedResult[T], error) {
	q := Query[T]{
		Filter: func(item *T) bool {
			return f.matches(content(item), title(item))
		},
		Compare: func(a, b *T) int {
			return cmp.Compare(content(b).CreatedAt.UnixNano(), content(a).CreatedAt.UnixNano())
		},
		Page: f.Page,
	}
	if owner := policy.Canonical(f.OwnerID); owner != "" {
		q.Lookup = "owner"
		q.LookupValue = owner
	}
	return e.Find(ctx, q)
}

func ownerKey(c *domain.Content) []string {
	if c.OwnerID == "" {
		return nil
	}
	return []string{c.OwnerID}
}
