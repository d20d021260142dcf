package search

import (
	"context"
	"fmt"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

// Indexer adapts a SearchIndex to store.SearchIndexer.
type Indexer struct {
	index *SearchIndex
}

var _ store.SearchIndexer = (*Indexer)(nil)

// NewIndexer wraps index.
func NewIndexer(index *SearchIndex) *Indexer {
	return &Indexer{index: index}
}

// IndexBlog upserts a blog document.
func (i *Indexer) IndexBlog(_ context.Context, b *domain.Blog) error {
	return i.index.IndexDocument(BlogToDocument(b))
}

// DeleteBlog removes a blog document.
func (i *Indexer) DeleteBlog(_ context.Context, blogID string) error {
	return i.index.DeleteDocument(blogID)
}

// IndexCollection upserts a collection document.
func (i *Indexer) IndexCollection(_ context.Context, c *domain.Collection) error {
	return i.index.IndexDocument(CollectionToDocument(c))
}

// DeleteCollection removes a collection document.
func (i *Indexer) DeleteCollection(_ context.Context, collectionID string) error {
	return i.index.DeleteDocument(collectionID)
}

// Backfill indexes every blog and collection when the index is empty,
// e.g. after a mapping version change. Returns the number of documents written.
func Backfill(ctx context.Context, index *SearchIndex, st *store.Store) (int, error) {
	count, err := index.DocumentCount()
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	var docs []*Document
	for b, err := range st.Blogs.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("list blogs: %w", err)
		}
		docs = append(docs, BlogToDocument(b))
	}
	for c, err := range st.Collections.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("list collections: %w", err)
		}
		docs = append(docs, CollectionToDocument(c))
	}

	if err := index.IndexDocuments(docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}
