package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptor_Disabled(t *testing.T) {
	t.Setenv("TELESCRAPE_ENABLE_ENCRYPTION", "false")

	enc, err := NewEncryptor()
	require.NoError(t, err)

	out, err := enc.EncryptIfEnabled("plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	back, err := enc.DecryptIfEnabled(out)
	require.NoError(t, err)
	assert.Equal(t, "plain text", back)
}

func TestEncryptor_RoundTrip(t *testing.T) {
	t.Setenv("TELESCRAPE_ENABLE_ENCRYPTION", "true")
	t.Setenv("TELESCRAPE_ENCRYPTION_SECRET", "this-is-a-test-secret-of-32-chars!!")

	enc, err := NewEncryptor()
	require.NoError(t, err)

	plaintext := "some channel message with unicode: héllo"
	ciphertext, err := enc.EncryptIfEnabled(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := enc.DecryptIfEnabled(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptor_NonDeterministic(t *testing.T) {
	t.Setenv("TELESCRAPE_ENABLE_ENCRYPTION", "true")
	t.Setenv("TELESCRAPE_ENCRYPTION_SECRET", "this-is-a-test-secret-of-32-chars!!")

	enc, err := NewEncryptor()
	require.NoError(t, err)

	first, err := enc.Encrypt("same input")
	require.NoError(t, err)
	second, err := enc.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestEncryptor_ShortSecret(t *testing.T) {
	t.Setenv("TELESCRAPE_ENABLE_ENCRYPTION", "true")
	t.Setenv("TELESCRAPE_ENCRYPTION_SECRET", "too-short")

	_, err := NewEncryptor()
	assert.Error(t, err)
}

func TestEncryptor_EmptyString(t *testing.T) {
	t.Setenv("TELESCRAPE_ENABLE_ENCRYPTION", "true")
	t.Setenv("TELESCRAPE_ENCRYPTION_SECRET", "this-is-a-test-secret-of-32-chars!!")

	enc, err := NewEncryptor()
	require.NoError(t, err)

	out, err := enc.EncryptIfEnabled("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestDatabase_EncryptionRoundTrip(t *testing.T) {
	t.Setenv("TELESCRAPE_ENABLE_ENCRYPTION", "true")
	t.Setenv("TELESCRAPE_ENCRYPTION_SECRET", "this-is-a-test-secret-of-32-chars!!")

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	msg := testMessage("news", 1, "sensitive payload", base.Add(12*time.Hour))
	require.NoError(t, db.SaveMessage(ctx, msg))

	got, err := db.GetMessagesSince(ctx, "news", base)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sensitive payload", got[0].Text)
}
