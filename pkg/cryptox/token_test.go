package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)
	require.Len(t, token, TokenLength)
	require.True(t, ValidTokenFormat(token))

	// Verify token is unique (generate another and compare)
	token2, err := GenerateToken()
	require.NoError(t, err)
	require.NotEqual(t, token, token2, "tokens should be unique")
}

func TestMustGenerateToken(t *testing.T) {
	token := MustGenerateToken()
	require.Len(t, token, TokenLength)
}

func TestFingerprintToken(t *testing.T) {
	token1 := MustGenerateToken()
	token2 := MustGenerateToken()

	fp1a := FingerprintToken(token1)
	fp1b := FingerprintToken(token1)
	fp2 := FingerprintToken(token2)

	// Fingerprint should be deterministic
	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")

	// Different tokens should have different fingerprints
	require.NotEqual(t, fp1a, fp2, "different tokens should have different fingerprints")

	// Fingerprint should be hex encoded SHA-256 (64 chars)
	require.Len(t, fp1a, 64, "SHA-256 hex should be 64 chars")

	// Fingerprint must never equal the token itself
	require.NotEqual(t, token1, fp1a)
}

func TestValidTokenFormat(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"generated token", MustGenerateToken(), true},
		{"all zeros", "00000000000000000000000000000000", true},
		{"empty", "", false},
		{"too short", "abcdef", false},
		{"too long", MustGenerateToken() + "00", false},
		{"uppercase hex", "ABCDEF0123456789ABCDEF0123456789", true},
		{"non-hex characters", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"path traversal", "../../../../etc/passwd/../../..", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ValidTokenFormat(tt.token))
		})
	}
}

func TestGenerateToken_EntropyQuality(t *testing.T) {
	// Generate multiple tokens and ensure they're all different
	const count = 100
	tokens := make(map[string]bool, count)

	for range count {
		token, err := GenerateToken()
		require.NoError(t, err)
		require.NotContains(t, tokens, token, "duplicate token generated")
		tokens[token] = true
	}
}
