package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
)

func setupBlogService(t *testing.T) *BlogService {
	t.Helper()
	return NewBlogService(setupTestStore(t), testLogger())
}

func createBlog(t *testing.T, svc *BlogService, owner, title string, v domain.Visibility) *domain.Blog {
	t.Helper()
	blog, err := svc.CreateBlog(context.Background(), owner, CreateBlogRequest{
		Title:        title,
		Content:      "Notes on " + title,
		SpoilerAlert: ptr(false),
		Visibility:   string(v),
	})
	require.NoError(t, err)
	return blog
}

func TestBlogService_CreateDefaults(t *testing.T) {
	svc := setupBlogService(t)
	alice := newUserID()

	blog, err := svc.CreateBlog(context.Background(), alice, CreateBlogRequest{
		Title:        "  Piranesi  ",
		Content:      "A house of endless halls.",
		Genres:       []string{"Fantasy", "Fantasy", " "},
		SpoilerAlert: ptr(true),
	})
	require.NoError(t, err)

	assert.True(t, id.Valid(id.PrefixBlog, blog.ID))
	assert.Equal(t, alice, blog.OwnerID)
	assert.Equal(t, domain.VisibilityPublic, blog.Visibility)
	assert.Equal(t, "Piranesi", blog.Title)
	assert.Equal(t, []string{"Fantasy"}, blog.Genres)
	assert.True(t, blog.SpoilerAlert)
}

func TestBlogService_CreateValidation(t *testing.T) {
	svc := setupBlogService(t)
	owner := newUserID()

	tests := []struct {
		name string
		req  CreateBlogRequest
	}{
		{"missing title", CreateBlogRequest{Content: "x", SpoilerAlert: ptr(false)}},
		{"blank content", CreateBlogRequest{Title: "t", Content: "   ", SpoilerAlert: ptr(false)}},
		{"missing spoiler flag", CreateBlogRequest{Title: "t", Content: "x"}},
		{"bad visibility", CreateBlogRequest{Title: "t", Content: "x", SpoilerAlert: ptr(false), Visibility: "secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBlog(context.Background(), owner, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestBlogService_PrivateBlogAccess(t *testing.T) {
	svc := setupBlogService(t)
	ctx := context.Background()
	alice, bob := newUserID(), newUserID()

	blog := createBlog(t, svc, alice, "Diary", domain.VisibilityPrivate)

	_, err := svc.GetBlog(ctx, bob, blog.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	got, err := svc.GetBlog(ctx, alice, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes on Diary", got.Body)
}

func TestBlogService_GetErrors(t *testing.T) {
	svc := setupBlogService(t)
	ctx := context.Background()

	_, err := svc.GetBlog(ctx, newUserID(), "not-an-id")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.GetBlog(ctx, newUserID(), id.MustGenerate(id.PrefixBlog))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBlogService_ListFilters(t *testing.T) {
	svc := setupBlogService(t)
	ctx := context.Background()
	alice, bob := newUserID(), newUserID()

	createBlog(t, svc, alice, "Alice public", domain.VisibilityPublic)
	createBlog(t, svc, alice, "Alice private", domain.VisibilityPrivate)
	createBlog(t, svc, alice, "Alice friends", domain.VisibilityFriends)
	createBlog(t, svc, bob, "Bob public", domain.VisibilityPublic)

	titles := func(list *BlogList) []string {
		out := make([]string, 0, len(list.Blogs))
		for _, b := range list.Blogs {
			out = append(out, b.Title)
		}
		return out
	}

	all, err := svc.ListBlogs(ctx, bob, ListBlogsRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alice public", "Bob public"}, titles(all))

	mine, err := svc.ListBlogs(ctx, alice, ListBlogsRequest{Author: "me"})
	require.NoError(t, err)
	assert.Len(t, mine.Blogs, 3)

	hers, err := svc.ListBlogs(ctx, bob, ListBlogsRequest{Author: alice})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice public"}, titles(hers))

	searched, err := svc.ListBlogs(ctx, alice, ListBlogsRequest{Author: "me", Search: "PRIVATE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice private"}, titles(searched))

	_, err = svc.ListBlogs(ctx, alice, ListBlogsRequest{Author: "garbage"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestBlogService_ListPagination(t *testing.T) {
	svc := setupBlogService(t)
	ctx := context.Background()
	owner := newUserID()

	for range BlogPageSize + 3 {
		createBlog(t, svc, owner, "post", domain.VisibilityPublic)
	}

	first, err := svc.ListBlogs(ctx, owner, ListBlogsRequest{})
	require.NoError(t, err)
	assert.Len(t, first.Blogs, BlogPageSize)
	assert.True(t, first.Pagination.HasMore)
	assert.Equal(t, 2, first.Pagination.TotalPages)

	second, err := svc.ListBlogs(ctx, owner, ListBlogsRequest{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Blogs, 3)
	assert.False(t, second.Pagination.HasMore)
}

func TestBlogService_UpdateAndDeleteRequireOwnership(t *testing.T) {
	svc := setupBlogService(t)
	ctx := context.Background()
	alice, bob := newUserID(), newUserID()

	blog := createBlog(t, svc, alice, "Draft", domain.VisibilityPublic)

	_, err := svc.UpdateBlog(ctx, bob, blog.ID, UpdateBlogRequest{Title: ptr("Hijacked")})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = svc.DeleteBlog(ctx, bob, blog.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	updated, err := svc.UpdateBlog(ctx, alice, blog.ID, UpdateBlogRequest{
		Title:      ptr("Final"),
		Visibility: ptr("private"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Notes on Draft", updated.Body)
	assert.Equal(t, domain.VisibilityPrivate, updated.Visibility)
	assert.Equal(t, alice, updated.OwnerID)

	_, err = svc.UpdateBlog(ctx, alice, blog.ID, UpdateBlogRequest{Title: ptr("  ")})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	require.NoError(t, svc.DeleteBlog(ctx, alice, blog.ID))
	_, err = svc.GetBlog(ctx, alice, blog.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
