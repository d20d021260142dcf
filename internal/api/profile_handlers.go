package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (s *Server) registerProfileRoutes() {
	register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/profile/me",
		Summary:     "Get my profile",
		Description: "Returns the full account of the authenticated user",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyProfile)

	register(s.api, huma.Operation{
		OperationID: "updateMyProfile",
		Method:      http.MethodPatch,
		Path:        "/profile/me",
		Summary:     "Update my profile",
		Description: "Updates only the supplied fields. Usernames are unique ignoring case.",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMyProfile)

	register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/profile/{userID}",
		Summary:     "Get a user's profile",
		Description: "Returns the public profile of a user. Email and identity id are never exposed.",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserProfile)
}

// UpdateProfilePayload lists the editable profile fields.
type UpdateProfilePayload struct {
	_                struct{} `json:"-" additionalProperties:"true"`
	Username         *string  `json:"username,omitempty" doc:"New username"`
	Bio              *string  `json:"bio,omitempty" doc:"Short bio"`
	InterestedGenres []string `json:"interestedGenres,omitempty" doc:"Replaces the genre list"`
	DisplayName      *string  `json:"displayName,omitempty" doc:"Display name"`
	Avatar           *string  `json:"avatar,omitempty" doc:"Avatar URL"`
}

// UpdateProfileInput wraps the profile patch body.
type UpdateProfileInput struct {
	Body struct {
		Data UpdateProfilePayload `json:"data"`
	}
}

// GetUserProfileInput selects a user by id.
type GetUserProfileInput struct {
	UserID string `path:"userID" doc:"User id"`
}

// ProfileData is the payload of public profile responses.
type ProfileData struct {
	Profile *domain.PublicProfile `json:"profile"`
}

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*Output[UserData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ok("profile retrieved", UserData{User: user}), nil
}

func (s *Server) handleUpdateMyProfile(ctx context.Context, input *UpdateProfileInput) (*Output[UserData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	user, err := s.services.Profile.UpdateMe(ctx, userID, service.UpdateProfileRequest{
		Username:         data.Username,
		Bio:              data.Bio,
		InterestedGenres: data.InterestedGenres,
		DisplayName:      data.DisplayName,
		Avatar:           data.Avatar,
	})
	if err != nil {
		return nil, err
	}
	return ok("profile updated", UserData{User: user}), nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *GetUserProfileInput) (*Output[ProfileData], error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.GetPublic(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return ok("profile retrieved", ProfileData{Profile: profile}), nil
}
