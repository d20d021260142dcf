package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (s *Server) registerAuthRoutes() {
	register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodGet,
		Path:        "/auth/login",
		Summary:     "Log in",
		Description: "Resolves the verified identity to a registered user. Unregistered identities get newUser=true and must sign up.",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogin)

	register(s.api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/auth/signup",
		Summary:       "Sign up",
		Description:   "Registers the verified identity with a username",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSignup)
}

// SignupPayload carries the fields the identity provider does not supply.
type SignupPayload struct {
	_                struct{} `json:"-" additionalProperties:"true"`
	Username         string   `json:"username,omitempty" doc:"3-30 chars: lowercase letters, digits, '_' or '.'"`
	Bio              string   `json:"bio,omitempty" doc:"Short bio"`
	InterestedGenres []string `json:"interestedGenres,omitempty" doc:"Favourite genres"`
}

// SignupInput wraps the signup body.
type SignupInput struct {
	Body struct {
		Data SignupPayload `json:"data"`
	}
}

// UserData is the payload of responses that return the caller's account.
type UserData struct {
	User *domain.User `json:"user"`
}

func (s *Server) handleLogin(ctx context.Context, _ *struct{}) (*Output[*service.LoginResult], error) {
	ident, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Auth.Login(ctx, ident)
	if err != nil {
		return nil, err
	}

	message := "login successful"
	if result.NewUser {
		message = "identity verified, signup required"
	}
	return ok(message, result), nil
}

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*Output[UserData], error) {
	ident, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	user, err := s.services.Auth.Signup(ctx, ident, service.SignupRequest{
		Username:         data.Username,
		Bio:              data.Bio,
		InterestedGenres: data.InterestedGenres,
	})
	if err != nil {
		return nil, err
	}

	return ok("user created", UserData{User: user}), nil
}
