package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/auth"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/metrics"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/validation"
)

// AuthService turns verified identities into registered users
// (login, signup, token verification).
type AuthService struct {
	store     *store.Store
	verifier  auth.IdentityVerifier
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, verifier auth.IdentityVerifier, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		verifier:  verifier,
		logger:    logger,
		validator: validation.New(),
	}
}

// Authenticate verifies a bearer token and resolves the registered user.
// The user is nil when the identity has not signed up yet.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, *domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, nil, domainerrors.Unauthenticated("missing bearer token")
	}

	ident, err := s.verifier.Verify(ctx, token)
	if err != nil {
		s.logger.Debug("token verification failed", "error", err)
		return domain.Identity{}, nil, domainerrors.Unauthenticated("invalid or expired token")
	}

	user, err := s.store.GetUserByUID(ctx, ident.UID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ident, nil, nil
	case err != nil:
		return domain.Identity{}, nil, fmt.Errorf("resolve user: %w", err)
	}
	return ident, user, nil
}

// LoginResult reports whether the identity still has to sign up.
// User is the identity snapshot for new users and the stored user otherwise.
type LoginResult struct {
	NewUser bool `json:"newUser"`
	User    any  `json:"user"`
}

// Login records a sign-in. Unregistered identities get newUser=true.
func (s *AuthService) Login(ctx context.Context, ident domain.Identity) (*LoginResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUID(ctx, ident.UID)
	if errors.Is(err, store.ErrNotFound) {
		return &LoginResult{NewUser: true, User: ident}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fromStore(err, "stamp last login")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{NewUser: false, User: user}, nil
}

// SignupRequest contains the profile fields chosen at signup.
type SignupRequest struct {
	Username         string   `json:"username" validate:"required,username"`
	Bio              string   `json:"bio" validate:"max=500"`
	InterestedGenres []string `json:"interestedGenres"`
}

// Signup registers the identity as a user.
// An already registered identity is a validation error; a taken username is a conflict.
func (s *AuthService) Signup(ctx context.Context, ident domain.Identity, req SignupRequest) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req.Username = normalizeUsername(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByUID(ctx, ident.UID); err == nil {
		return nil, domainerrors.Validation("user already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:               userID,
		UID:              ident.UID,
		Email:            ident.Email,
		DisplayName:      ident.Name,
		Avatar:           ident.Picture,
		Username:         req.Username,
		Bio:              strings.TrimSpace(req.Bio),
		InterestedGenres: domain.NormalizeSet(req.InterestedGenres),
		CreatedAt:        now,
		UpdatedAt:        now,
		LastLoginAt:      now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fromStore(err, "create user")
	}
	metrics.ContentCreated(metrics.KindProfile)

	s.logger.Info("user signed up", "user_id", userID, "username", user.Username)
	return user, nil
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
