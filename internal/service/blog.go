package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/metrics"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/policy"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/validation"
)

// BlogService orchestrates blog operations with visibility and ownership enforcement.
type BlogService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewBlogService creates a new blog service.
func NewBlogService(store *store.Store, logger *slog.Logger) *BlogService {
	return &BlogService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListBlogsRequest selects a page of blogs.
// Author is empty (public blogs), "me" (every blog of the requester), or a user id.
type ListBlogsRequest struct {
	Author string
	Search string
	Page   int
}

// BlogList is one page of blogs.
type BlogList struct {
	Blogs      []*domain.Blog `json:"blogs"`
	Pagination Page           `json:"pagination"`
}

// ListBlogs returns blogs visible to the requester, newest first.
func (s *BlogService) ListBlogs(ctx context.Context, requesterID string, req ListBlogsRequest) (*BlogList, error) {
	filter, err := ownerFilter(req.Author, requesterID, "author")
	if err != nil {
		return nil, err
	}

	result, err := s.store.ListBlogs(ctx, store.ContentFilter{
		ListFilter:    filter,
		TitleContains: strings.TrimSpace(req.Search),
		Page:          store.PageParams{Page: req.Page, Size: BlogPageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	return &BlogList{Blogs: nonNil(result.Items), Pagination: pageOf(result)}, nil
}

// GetBlog returns a blog if the requester may read it.
func (s *BlogService) GetBlog(ctx context.Context, requesterID, blogID string) (*domain.Blog, error) {
	if err := checkID(id.PrefixBlog, blogID, "blog"); err != nil {
		return nil, err
	}
	blog, err := s.store.GetBlog(ctx, blogID)
	if err != nil {
		return nil, fromStore(err, "get blog")
	}
	if err := authorizeRead(blog, requesterID, "blog"); err != nil {
		return nil, err
	}
	return blog, nil
}

// CreateBlogRequest contains fields for creating a blog.
type CreateBlogRequest struct {
	Title        string   `json:"title" validate:"notblank,max=200"`
	Content      string   `json:"content" validate:"notblank"`
	Genres       []string `json:"genres"`
	SpoilerAlert *bool    `json:"spoilerAlert" validate:"required"`
	Visibility   string   `json:"visibility" validate:"visibility"`
}

// CreateBlog creates a blog owned by the requester.
func (s *BlogService) CreateBlog(ctx context.Context, ownerID string, req CreateBlogRequest) (*domain.Blog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	visibility, err := domain.ParseVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}

	blogID, err := id.Generate(id.PrefixBlog)
	if err != nil {
		return nil, fmt.Errorf("generate blog ID: %w", err)
	}

	blog := &domain.Blog{
		Content:      domain.NewContent(blogID, ownerID, visibility),
		Title:        strings.TrimSpace(req.Title),
		Body:         req.Content,
		Genres:       domain.NormalizeSet(req.Genres),
		SpoilerAlert: *req.SpoilerAlert,
	}

	if err := s.store.CreateBlog(ctx, blog); err != nil {
		return nil, fromStore(err, "create blog")
	}
	metrics.ContentCreated(metrics.KindBlog)

	s.logger.Info("blog created",
		"blog_id", blogID,
		"owner_id", ownerID,
		"visibility", visibility,
	)
	return blog, nil
}

// UpdateBlogRequest is a partial update. Nil fields are left unchanged.
type UpdateBlogRequest struct {
	Title        *string  `json:"title" validate:"omitnil,notblank,max=200"`
	Content      *string  `json:"content" validate:"omitnil,notblank"`
	Genres       []string `json:"genres"`
	SpoilerAlert *bool    `json:"spoilerAlert"`
	Visibility   *string  `json:"visibility" validate:"omitnil,visibility"`
}

// UpdateBlog applies the supplied fields. Requires ownership.
func (s *BlogService) UpdateBlog(ctx context.Context, requesterID, blogID string, req UpdateBlogRequest) (*domain.Blog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id.PrefixBlog, blogID, "blog"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	blog, err := s.store.GetBlog(ctx, blogID)
	if err != nil {
		return nil, fromStore(err, "get blog")
	}
	if err := authorizeMutation(blog, requesterID, "blog", "update"); err != nil {
		return nil, err
	}

	if req.Title != nil {
		blog.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		blog.Body = *req.Content
	}
	if req.Genres != nil {
		blog.Genres = domain.NormalizeSet(req.Genres)
	}
	if req.SpoilerAlert != nil {
		blog.SpoilerAlert = *req.SpoilerAlert
	}
	if req.Visibility != nil {
		v, err := domain.ParseVisibility(*req.Visibility)
		if err != nil {
			return nil, err
		}
		blog.Visibility = v
	}
	blog.Touch()

	if err := s.store.UpdateBlog(ctx, blog); err != nil {
		return nil, fromStore(err, "update blog")
	}

	s.logger.Info("blog updated", "blog_id", blogID, "owner_id", requesterID)
	return blog, nil
}

// DeleteBlog removes a blog permanently. Requires ownership.
func (s *BlogService) DeleteBlog(ctx context.Context, requesterID, blogID string) error {
	if err := checkID(id.PrefixBlog, blogID, "blog"); err != nil {
		return err
	}
	blog, err := s.store.GetBlog(ctx, blogID)
	if err != nil {
		return fromStore(err, "get blog")
	}
	if err := authorizeMutation(blog, requesterID, "blog", "delete"); err != nil {
		return err
	}

	if err := s.store.DeleteBlog(ctx, blogID); err != nil {
		return fromStore(err, "delete blog")
	}
	metrics.ContentDeleted(metrics.KindBlog)

	s.logger.Info("blog deleted", "blog_id", blogID, "owner_id", requesterID)
	return nil
}

// ownerFilter resolves an owner/author list parameter to a filter.
// Anything other than empty or "me" must be a well-formed user id.
func ownerFilter(param, requesterID, name string) (policy.ListFilter, error) {
	param = strings.TrimSpace(param)
	if param != "" && param != policy.OwnerMe {
		if err := checkID(id.PrefixUser, param, name); err != nil {
			return policy.ListFilter{}, err
		}
	}
	return policy.ForOwnerParam(param, requesterID), nil
}

// nonNil keeps empty lists encoding as [] instead of null.
func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	return items
}
