package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeck/crewdeck/internal/auth"
)

const testSecret = "test-secret-0123456789"

func newCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec(testSecret)
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_ShortSecret(t *testing.T) {
	_, err := auth.NewTokenCodec("short")
	assert.Error(t, err)
}

func TestTokenCodec_SignVerifyRoundTrip(t *testing.T) {
	codec := newCodec(t)
	userID := uuid.New()

	token, expiresAt, err := codec.Sign(userID, 10*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestTokenCodec_VerifyExpired(t *testing.T) {
	codec := newCodec(t)

	token, _, err := codec.Sign(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenCodec_VerifyMalformed(t *testing.T) {
	codec := newCodec(t)

	_, err := codec.Verify("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = codec.Verify("")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenCodec_VerifyWrongSecret(t *testing.T) {
	codec := newCodec(t)
	other, err := auth.NewTokenCodec("another-secret-5555555")
	require.NoError(t, err)

	token, _, err := codec.Sign(uuid.New(), time.Minute)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenCodec_ExtractUncheckedAcceptsExpired(t *testing.T) {
	codec := newCodec(t)
	userID := uuid.New()

	token, _, err := codec.Sign(userID, -time.Minute)
	require.NoError(t, err)

	claims, err := codec.ExtractUnchecked(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenCodec_ExtractUncheckedStillChecksSignature(t *testing.T) {
	codec := newCodec(t)
	other, err := auth.NewTokenCodec("another-secret-5555555")
	require.NoError(t, err)

	token, _, err := other.Sign(uuid.New(), time.Minute)
	require.NoError(t, err)

	_, err = codec.ExtractUnchecked(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
