package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (s *Server) registerBlogRoutes() {
	register(s.api, huma.Operation{
		OperationID: "listBlogs",
		Method:      http.MethodGet,
		Path:        "/blogs",
		Summary:     "List blogs",
		Description: "Lists public blogs, every blog of the caller (author=me), or the public blogs of one author. Newest first, 10 per page.",
		Tags:        []string{"Blogs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBlogs)

	register(s.api, huma.Operation{
		OperationID: "getBlog",
		Method:      http.MethodGet,
		Path:        "/blogs/{id}",
		Summary:     "Get blog",
		Description: "Returns a blog if it is public or owned by the caller",
		Tags:        []string{"Blogs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBlog)

	register(s.api, huma.Operation{
		OperationID:   "createBlog",
		Method:        http.MethodPost,
		Path:          "/blogs",
		Summary:       "Create blog",
		Description:   "Publishes a blog owned by the caller",
		Tags:          []string{"Blogs"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBlog)

	register(s.api, huma.Operation{
		OperationID: "updateBlog",
		Method:      http.MethodPatch,
		Path:        "/blogs/{id}",
		Summary:     "Update blog",
		Description: "Updates only the supplied fields. Owner only.",
		Tags:        []string{"Blogs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBlog)

	register(s.api, huma.Operation{
		OperationID: "deleteBlog",
		Method:      http.MethodDelete,
		Path:        "/blogs/{id}",
		Summary:     "Delete blog",
		Description: "Permanently deletes a blog. Owner only.",
		Tags:        []string{"Blogs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBlog)
}

// ListBlogsInput contains parameters for listing blogs.
type ListBlogsInput struct {
	PageParam
	Author string `query:"author" doc:"'me' for your own blogs, or a user id for that author's public blogs"`
	Search string `query:"search" doc:"Case-insensitive title substring"`
}

// BlogPayload is the body of blog create and update requests.
// Unknown keys such as owner are accepted and ignored.
type BlogPayload struct {
	_            struct{} `json:"-" additionalProperties:"true"`
	Title        *string  `json:"title,omitempty" doc:"Blog title"`
	Content      *string  `json:"content,omitempty" doc:"Blog body"`
	Genres       []string `json:"genres,omitempty" doc:"Genres; replaces the list on update"`
	SpoilerAlert *bool    `json:"spoilerAlert,omitempty" doc:"Whether the post contains spoilers; required on create"`
	Visibility   *string  `json:"visibility,omitempty" enum:"public,private,friends" doc:"Defaults to public"`
}

// BlogInput wraps a blog create body.
type BlogInput struct {
	Body struct {
		Data BlogPayload `json:"data"`
	}
}

// UpdateBlogInput wraps a blog patch.
type UpdateBlogInput struct {
	IDParam
	Body struct {
		Data BlogPayload `json:"data"`
	}
}

// BlogData is the payload of single-blog responses.
type BlogData struct {
	Blog *domain.Blog `json:"blog"`
}

func (s *Server) handleListBlogs(ctx context.Context, input *ListBlogsInput) (*Output[*service.BlogList], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Blog.ListBlogs(ctx, userID, service.ListBlogsRequest{
		Author: input.Author,
		Search: input.Search,
		Page:   input.Page,
	})
	if err != nil {
		return nil, err
	}
	return ok("blogs retrieved", list), nil
}

func (s *Server) handleGetBlog(ctx context.Context, input *IDParam) (*Output[BlogData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	blog, err := s.services.Blog.GetBlog(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return ok("blog retrieved", BlogData{Blog: blog}), nil
}

func (s *Server) handleCreateBlog(ctx context.Context, input *BlogInput) (*Output[BlogData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	blog, err := s.services.Blog.CreateBlog(ctx, userID, service.CreateBlogRequest{
		Title:        deref(data.Title),
		Content:      deref(data.Content),
		Genres:       data.Genres,
		SpoilerAlert: data.SpoilerAlert,
		Visibility:   deref(data.Visibility),
	})
	if err != nil {
		return nil, err
	}
	return ok("blog created", BlogData{Blog: blog}), nil
}

func (s *Server) handleUpdateBlog(ctx context.Context, input *UpdateBlogInput) (*Output[BlogData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	blog, err := s.services.Blog.UpdateBlog(ctx, userID, input.ID, service.UpdateBlogRequest{
		Title:        data.Title,
		Content:      data.Content,
		Genres:       data.Genres,
		SpoilerAlert: data.SpoilerAlert,
		Visibility:   data.Visibility,
	})
	if err != nil {
		return nil, err
	}
	return ok("blog updated", BlogData{Blog: blog}), nil
}

func (s *Server) handleDeleteBlog(ctx context.Context, input *IDParam) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Blog.DeleteBlog(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return done("blog deleted"), nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
