package crypto

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

const testSecret = "unit-test-signing-secret-0123456789"

func newTestCodec(t *testing.T, leeway time.Duration) service.TokenCodec {
	t.Helper()
	codec, err := NewHMACTokenCodec([]byte(testSecret), leeway, logger.NewNop())
	require.NoError(t, err)
	return codec
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec(t, 0)
	ctx := context.Background()

	accounts := []string{"acc-a", "acc-b"}
	issuedAt := time.Now().UTC()

	token, err := codec.Encode(ctx, "alice", accounts, issuedAt, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, "alice", token.Subject)
	assert.WithinDuration(t, issuedAt.Add(time.Hour), token.ExpiresAt, time.Second)

	claims, err := codec.Decode(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, accounts, claims.AccountIDs)
}

func TestEncodeEmptyAccountSet(t *testing.T) {
	codec := newTestCodec(t, 0)
	ctx := context.Background()

	token, err := codec.Encode(ctx, "bob", nil, time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Empty(t, claims.AccountIDs)
}

func TestDecodeExpiredToken(t *testing.T) {
	codec := newTestCodec(t, 0)
	ctx := context.Background()

	// Issued far enough in the past that it is already expired.
	token, err := codec.Encode(ctx, "alice", []string{"acc-a"}, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(ctx, token.Value)
	assert.True(t, errors.HasCode(err, errors.CodeTokenExpired), "got %v", err)
}

func TestDecodeLeewayAcceptsRecentlyExpired(t *testing.T) {
	codec := newTestCodec(t, 30*time.Second)
	ctx := context.Background()

	// Expired ten seconds ago, inside the 30s leeway.
	token, err := codec.Encode(ctx, "alice", []string{"acc-a"}, time.Now().Add(-time.Hour).Add(-10*time.Second), time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(ctx, token.Value)
	assert.NoError(t, err)
}

func TestDecodeTamperedToken(t *testing.T) {
	codec := newTestCodec(t, 0)
	ctx := context.Background()

	token, err := codec.Encode(ctx, "alice", []string{"acc-a"}, time.Now(), time.Hour)
	require.NoError(t, err)

	// Flip one byte of the payload segment. Decode must fail the signature
	// check, never silently succeed with altered claims.
	parts := strings.Split(token.Value, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[10] == 'A' {
		payload[10] = 'B'
	} else {
		payload[10] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Decode(ctx, tampered)
	require.Error(t, err)
	assert.True(t,
		errors.HasCode(err, errors.CodeTokenSignature) || errors.HasCode(err, errors.CodeTokenMalformed),
		"tampered token must fail signature or structural check, got %v", err)
	assert.False(t, errors.HasCode(err, errors.CodeTokenExpired))
}

func TestDecodeWrongKey(t *testing.T) {
	codec := newTestCodec(t, 0)
	other, err := NewHMACTokenCodec([]byte("a-completely-different-secret-key"), 0, logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := codec.Encode(ctx, "alice", []string{"acc-a"}, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = other.Decode(ctx, token.Value)
	assert.True(t, errors.HasCode(err, errors.CodeTokenSignature), "got %v", err)
}

func TestDecodeMalformedInput(t *testing.T) {
	codec := newTestCodec(t, 0)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"not a jwt", "hello world"},
		{"two segments", "aaaa.bbbb"},
		{"garbage segments", "aaaa.bbbb.cccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(ctx, tt.input)
			require.Error(t, err)
			assert.True(t,
				errors.HasCode(err, errors.CodeTokenMalformed) || errors.HasCode(err, errors.CodeTokenSignature),
				"got %v", err)
		})
	}
}

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	_, err := NewHMACTokenCodec(nil, 0, logger.NewNop())
	assert.True(t, errors.HasCode(err, errors.CodeTokenEncoding))
}

func TestEncodeCopiesAccountSet(t *testing.T) {
	codec := newTestCodec(t, 0)
	ctx := context.Background()

	accounts := []string{"acc-a"}
	token, err := codec.Encode(ctx, "alice", accounts, time.Now(), time.Hour)
	require.NoError(t, err)

	// Mutating the caller's slice must not reach the issued claims.
	accounts[0] = "acc-evil"

	claims, err := codec.Decode(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, []string{"acc-a"}, claims.AccountIDs)
}
