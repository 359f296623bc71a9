package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	ref := "0b7c4c1e-8d0c-4a55-9a53-6a2a3f2b9d10_logo.png"
	token, expiresAt, err := signer.Generate("42", ref)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	subject, parsedRef, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "42", subject)
	require.Equal(t, ref, parsedRef)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	base := time.Now()
	signer.now = func() time.Time { return base }
	token, _, err := signer.Generate("42", "ref_logo.png")
	require.NoError(t, err)

	signer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, _, _, err = signer.Parse(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("42", "ref_logo.png")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	other, _, err := signer.Generate("43", "ref_other.png")
	require.NoError(t, err)
	parts[2] = strings.Split(other, ".")[2]

	_, _, _, err = signer.Parse(strings.Join(parts, "."))
	require.ErrorIs(t, err, ErrTokenSignature)

	_, _, _, err = NewSignedURLSigner("other", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrTokenSignature)

	_, _, _, err = signer.Parse("not-a-token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestSignedURLSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Hour).Generate("42", "ref")
	require.Error(t, err)
}
