package auth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
)

const (
	// DefaultIssuer and DefaultAudience are used when the config leaves them empty.
	DefaultIssuer   = "boipoka-identity"
	DefaultAudience = "boipoka-api"
)

// IdentityVerifier turns a bearer token into a verified identity.
// The HTTP layer depends on this interface only.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// TokenService issues and verifies PASETO v4.local identity tokens.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	issuer       string
	audience     string
	lifetime     time.Duration
}

var _ IdentityVerifier = (*TokenService)(nil)

// Options configures a TokenService.
type Options struct {
	Key      []byte // 32 bytes
	Issuer   string
	Audience string
	Lifetime time.Duration
}

// NewTokenService creates a token service from a raw 32-byte key.
func NewTokenService(opts Options) (*TokenService, error) {
	if len(opts.Key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(opts.Key))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(opts.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	if opts.Issuer == "" {
		opts.Issuer = DefaultIssuer
	}
	if opts.Audience == "" {
		opts.Audience = DefaultAudience
	}
	if opts.Lifetime <= 0 {
		opts.Lifetime = time.Hour
	}

	return &TokenService{
		symmetricKey: key,
		issuer:       opts.Issuer,
		audience:     opts.Audience,
		lifetime:     opts.Lifetime,
	}, nil
}

// NewTokenServiceFromHex is NewTokenService for a hex-encoded key.
func NewTokenServiceFromHex(keyHex string, opts Options) (*TokenService, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}
	opts.Key = key
	return NewTokenService(opts)
}

// Issue mints an identity token for ident.
func (s *TokenService) Issue(ident domain.Identity) (string, error) {
	if ident.UID == "" {
		return "", fmt.Errorf("identity uid is required")
	}

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuer(s.issuer)
	token.SetSubject(ident.UID)
	token.SetAudience(s.audience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.lifetime))

	jti, err := id.Generate("tok")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(jti)

	//nolint:errcheck // Set only fails for values that cannot be marshalled
	_ = token.Set("email", ident.Email)
	//nolint:errcheck // see above
	_ = token.Set("name", ident.Name)
	//nolint:errcheck // see above
	_ = token.Set("picture", ident.Picture)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify decrypts and validates a token and returns the identity it asserts.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}

	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(s.audience))
	parser.AddRule(paseto.IssuedBy(s.issuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	var claims IdentityClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return domain.Identity{}, fmt.Errorf("parse claims: %w", err)
	}
	if claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("invalid token: missing subject")
	}

	return claims.Identity(), nil
}

// Lifetime returns the configured token lifetime.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}
