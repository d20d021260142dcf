package store

import (
	"context"
	"errors"
	"net/http"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

var (
	// ErrUserNotFound is returned when no user matches an id, uid, or username.
	ErrUserNotFound = ErrNotFound.WithMessage("user not found")
	// ErrUsernameTaken is returned when a username is already claimed.
	ErrUsernameTaken = ErrAlreadyExists.WithMessage("username already taken")
	// ErrUserExists is returned when the identity is already registered.
	// It is a client error rather than a conflict: the caller should log in instead.
	ErrUserExists = &Error{Code: http.StatusBadRequest, Message: "user already exists"}
)

// initUsers registers the Users entity.
// uid is unique per identity; usernames are unique case-insensitively.
func (s *Store) initUsers() {
	s.Users = NewEntity(s, "user:", func(u *domain.User) string { return u.ID }).
		WithIndex("uid", func(u *domain.User) []string {
			return []string{u.UID}
		}).
		WithIndexTransform("username",
			func(u *domain.User) []string {
				if u.Username == "" {
					return nil
				}
				return []string{foldKey(u.Username)}
			},
			foldKey,
		)
}

// CreateUser registers a user.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.Users.Create(ctx, u)
	if errors.Is(err, ErrAlreadyExists) {
		return s.classifyUserConflict(ctx, u)
	}
	return err
}

// classifyUserConflict reports which unique field a failed user write collided on.
func (s *Store) classifyUserConflict(ctx context.Context, u *domain.User) error {
	if existing, err := s.Users.GetByIndex(ctx, "uid", u.UID); err == nil && existing.ID != u.ID {
		return ErrUserExists
	}
	return ErrUsernameTaken
}

// GetUser returns a user by internal id.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.Users.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetUserByUID returns the user registered for an external identity.
func (s *Store) GetUserByUID(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.Users.GetByIndex(ctx, "uid", uid)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateUser persists profile changes.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	err := s.Users.Update(ctx, u)
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, ErrAlreadyExists):
		return ErrUsernameTaken
	}
	return err
}
