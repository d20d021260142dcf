package store

import (
	"context"
	"errors"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// ErrBlogNotFound is returned when a blog id matches nothing.
var ErrBlogNotFound = ErrNotFound.WithMessage("blog not found")

func (s *Store) initBlogs() {
	s.Blogs = NewEntity(s, "blog:", func(b *domain.Blog) string { return b.ID }).
		WithLookup("owner", func(b *domain.Blog) []string { return ownerKey(&b.Content) })
}

// CreateBlog stores a new blog and indexes it for search.
func (s *Store) CreateBlog(ctx context.Context, b *domain.Blog) error {
	if err := s.Blogs.Create(ctx, b); err != nil {
		return err
	}
	s.reindex("blog", b.ID, func() error { return s.searchIndexer.IndexBlog(ctx, b) })
	return nil
}

// GetBlog returns a blog by id.
func (s *Store) GetBlog(ctx context.Context, blogID string) (*domain.Blog, error) {
	b, err := s.Blogs.Get(ctx, blogID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBlogNotFound
	}
	return b, err
}

// UpdateBlog persists changes and refreshes the search document.
func (s *Store) UpdateBlog(ctx context.Context, b *domain.Blog) error {
	if err := s.Blogs.Update(ctx, b); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	s.reindex("blog", b.ID, func() error { return s.searchIndexer.IndexBlog(ctx, b) })
	return nil
}

// DeleteBlog removes a blog permanently.
func (s *Store) DeleteBlog(ctx context.Context, blogID string) error {
	if err := s.Blogs.Delete(ctx, blogID); err != nil {
		return err
	}
	s.reindex("blog", blogID, func() error { return s.searchIndexer.DeleteBlog(ctx, blogID) })
	return nil
}

// ListBlogs returns one page of blogs matching f, newest first.
func (s *Store) ListBlogs(ctx context.Context, f ContentFilter) (*PagedResult[domain.Blog], error) {
	return findContent(ctx, s.Blogs,
		func(b *domain.Blog) *domain.Content { return &b.Content },
		func(b *domain.Blog) string { return b.Title },
		f)
}
