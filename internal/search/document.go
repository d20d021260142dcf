package search

import (
	"strings"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// DocType identifies the kind of content a document was built from.
type DocType string

const (
	// DocTypeBlog is a blog post.
	DocTypeBlog DocType = "blog"
	// DocTypeCollection is a user collection.
	DocTypeCollection DocType = "collection"
)

// Document is the flattened, indexable form of a blog or collection.
type Document struct {
	ID         string
	Type       DocType
	Owner      string
	Visibility string
	Title      string
	Body       string
	Tags       []string
}

// ToMap converts the document to the field names used by the mapping.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"type":       string(d.Type),
		"owner":      d.Owner,
		"visibility": d.Visibility,
		"title":      d.Title,
		"body":       d.Body,
		"tags":       d.Tags,
	}
}

// BlogToDocument flattens a blog. Genres become keyword tags.
func BlogToDocument(b *domain.Blog) *Document {
	return &Document{
		ID:         b.ID,
		Type:       DocTypeBlog,
		Owner:      b.OwnerID,
		Visibility: string(b.Visibility),
		Title:      b.Title,
		Body:       b.Body,
		Tags:       lowerAll(b.Genres),
	}
}

// CollectionToDocument flattens a collection.
func CollectionToDocument(c *domain.Collection) *Document {
	return &Document{
		ID:         c.ID,
		Type:       DocTypeCollection,
		Owner:      c.OwnerID,
		Visibility: string(c.Visibility),
		Title:      c.Title,
		Body:       c.Description,
		Tags:       lowerAll(c.Tags),
	}
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
