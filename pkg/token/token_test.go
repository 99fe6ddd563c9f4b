package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	GenerateSecretKey()

	signed, err := Generate("user-123", time.Hour)
	require.NoError(t, err)
	require.Contains(t, signed, ".")

	uuid, err := Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uuid)
}

func TestValidateRejectsTamperedPayload(t *testing.T) {
	GenerateSecretKey()

	signed, err := Generate("user-123", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 2)

	// 篡改payload但保留原签名
	other, err := Generate("user-456", time.Hour)
	require.NoError(t, err)
	otherParts := strings.Split(other, ".")

	_, err = Validate(otherParts[0] + "." + parts[1])
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	GenerateSecretKey()

	signed, err := Generate("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = Validate(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsMalformedToken(t *testing.T) {
	GenerateSecretKey()

	for _, tokenString := range []string{"", "no-dot", "a.b.c", "!!!.???"} {
		_, err := Validate(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token: %q", tokenString)
	}
}

func TestTokensInvalidAfterKeyRotation(t *testing.T) {
	GenerateSecretKey()
	signed, err := Generate("user-123", time.Hour)
	require.NoError(t, err)

	// 服务重启会生成新密钥，旧令牌必须全部失效
	GenerateSecretKey()
	_, err = Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
