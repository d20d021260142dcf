package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
)

type signupInput struct {
	Username   string `json:"username" validate:"required,username"`
	Bio        string `json:"bio" validate:"max=20"`
	Visibility string `json:"visibility" validate:"visibility"`
	Title      string `json:"title" validate:"notblank"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(signupInput{Username: "reader_01", Title: "x"})
	assert.NoError(t, err)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(signupInput{Username: "Bad Name!", Title: "x"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "username")
	assert.Contains(t, domainErr.Message, "username")
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input signupInput
		field string
	}{
		{"short username", signupInput{Username: "ab", Title: "x"}, "username"},
		{"uppercase username", signupInput{Username: "Reader", Title: "x"}, "username"},
		{"bad visibility", signupInput{Username: "reader", Visibility: "everyone", Title: "x"}, "visibility"},
		{"blank title", signupInput{Username: "reader", Title: "   "}, "title"},
		{"long bio", signupInput{Username: "reader", Title: "x", Bio: "this bio is definitely too long"}, "bio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Contains(t, domainErr.Details.(map[string]string), tt.field)
		})
	}
}
