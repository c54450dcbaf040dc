package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		SecretKey: "test-secret",
		Expiry:    time.Hour,
	})

	token, err := tm.Generate(42, "alice", "127.0.0.1")
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	entity, err := tm.Parse(token)
	assert.Nil(t, err)
	assert.Equal(t, int64(42), entity.UID)
	assert.Equal(t, "alice", entity.Username)
	assert.Equal(t, "127.0.0.1", entity.IP)
}

func TestTokenWrongKeyRejected(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "key-a", Expiry: time.Hour})

	token, err := tm.Generate(1, "bob", "")
	assert.Nil(t, err)

	_, err = ParseTokenWithKey(token, "key-b")
	assert.NotNil(t, err)
}

func TestTokenExpiredRejected(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "key", Expiry: -time.Minute})

	token, err := tm.Generate(1, "bob", "")
	assert.Nil(t, err)

	err = tm.Validate(token)
	assert.NotNil(t, err)
}
