package store

import (
	"strings"

	"golang.org/x/text/cases"
)

// containsFold reports whether s contains substr under Unicode case folding.
// An empty substr matches everything.
func containsFold(s, substr string) bool {
	substr = strings.TrimSpace(substr)
	if substr == "" {
		return true
	}
	folder := cases.Fold()
	return strings.Contains(folder.String(s), folder.String(substr))
}

// foldKey normalizes a unique index key so lookups are case-insensitive.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
