package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

func testKey() []byte {
	key := make([]byte, keyLength)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewTokenService(Options{Key: testKey()})
	require.NoError(t, err)

	ident := domain.Identity{UID: "uid-123", Email: "reader@example.com", Name: "Reader", Picture: "https://example.com/a.png"}
	token, err := svc.Issue(ident)
	require.NoError(t, err)
	assert.Contains(t, token, "v4.local.")

	got, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, ident, got)
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	issuer, err := NewTokenService(Options{Key: testKey()})
	require.NoError(t, err)

	otherKey := testKey()
	otherKey[0] = 0xFF
	verifier, err := NewTokenService(Options{Key: otherKey})
	require.NoError(t, err)

	token, err := issuer.Issue(domain.Identity{UID: "uid-1"})
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, err := NewTokenService(Options{Key: testKey(), Lifetime: time.Nanosecond})
	require.NoError(t, err)

	token, err := svc.Issue(domain.Identity{UID: "uid-1"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenService_RejectsWrongAudience(t *testing.T) {
	issuer, err := NewTokenService(Options{Key: testKey(), Audience: "someone-else"})
	require.NoError(t, err)
	verifier, err := NewTokenService(Options{Key: testKey()})
	require.NoError(t, err)

	token, err := issuer.Issue(domain.Identity{UID: "uid-1"})
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenService_Garbage(t *testing.T) {
	svc, err := NewTokenService(Options{Key: testKey()})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "not-a-token")
	assert.Error(t, err)

	_, err = svc.Issue(domain.Identity{})
	assert.Error(t, err)
}

func TestNewTokenService_KeyLength(t *testing.T) {
	_, err := NewTokenService(Options{Key: []byte("short")})
	assert.Error(t, err)

	_, err = NewTokenServiceFromHex("zz", Options{})
	assert.Error(t, err)
}

func TestLoadOrGenerateKey_Persists(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("abc"), 0o600))
	_, err = LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
