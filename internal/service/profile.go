package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/validation"
)

// ProfileService reads and edits user profiles.
type ProfileService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// GetMe returns the requester's full profile, including email.
func (s *ProfileService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fromStore(err, "get user")
	}
	return user, nil
}

// GetPublic returns another user's public profile.
func (s *ProfileService) GetPublic(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	if err := checkID(id.PrefixUser, userID, "user"); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fromStore(err, "get user")
	}
	profile := user.Public()
	return &profile, nil
}

// UpdateProfileRequest is a partial profile update. Nil fields are unchanged.
type UpdateProfileRequest struct {
	Username         *string  `json:"username" validate:"omitnil,username"`
	Bio              *string  `json:"bio" validate:"omitnil,max=500"`
	InterestedGenres []string `json:"interestedGenres"`
	DisplayName      *string  `json:"displayName" validate:"omitnil,notblank,max=100"`
	Avatar           *string  `json:"avatar" validate:"omitnil,max=2048"`
}

// UpdateMe applies the supplied fields. A username held by someone else is a conflict.
func (s *ProfileService) UpdateMe(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Username != nil {
		normalized := normalizeUsername(*req.Username)
		req.Username = &normalized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fromStore(err, "get user")
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.InterestedGenres != nil {
		user.InterestedGenres = domain.NormalizeSet(req.InterestedGenres)
	}
	if req.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
	}
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fromStore(err, "update user")
	}

	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}
