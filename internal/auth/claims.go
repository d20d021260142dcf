package auth

import (
	"time"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// IdentityClaims are the claims carried in an identity token.
// The subject is the identity provider's uid.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity converts the claims to a domain identity.
func (c IdentityClaims) Identity() domain.Identity {
	return domain.Identity{
		UID:     c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
	}
}
