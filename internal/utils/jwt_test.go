package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmarket/commercehub/internal/models"
)

const (
	testSecret        = "test-secret-key-for-jwt-testing"
	testWrongSecret   = "wrong-secret-key-for-jwt-testing"
	testTokenDuration = 2 * time.Hour
)

func newTestUser(role models.Role) *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "testuser",
		Email: "test@example.com",
		Role:  role,
	}
}

func TestGenerateUserToken_Success(t *testing.T) {
	user := newTestUser(models.RoleUser)

	token, err := GenerateUserToken(user, testSecret, testTokenDuration)

	require.NoError(t, err, "GenerateUserToken should not return error for valid input")
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.Contains(t, token, ".", "JWT token should contain dots")
}

func TestValidateUserToken_RoundTrip(t *testing.T) {
	roles := []models.Role{models.RoleUser, models.RoleAdmin}

	for _, role := range roles {
		t.Run(string(role), func(t *testing.T) {
			user := newTestUser(role)

			token, err := GenerateUserToken(user, testSecret, testTokenDuration)
			require.NoError(t, err)

			claims, err := ValidateUserToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, role, claims.Role)
		})
	}
}

func TestValidateUserToken_WrongSecret(t *testing.T) {
	user := newTestUser(models.RoleUser)

	token, err := GenerateUserToken(user, testSecret, testTokenDuration)
	require.NoError(t, err)

	claims, err := ValidateUserToken(token, testWrongSecret)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateUserToken_Expired(t *testing.T) {
	user := newTestUser(models.RoleUser)

	token, err := GenerateUserToken(user, testSecret, -1*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateUserToken(token, testSecret)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateUserToken_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c",
	}

	for _, token := range malformed {
		claims, err := ValidateUserToken(token, testSecret)
		assert.Nil(t, claims, "Malformed token %q should not produce claims", token)
		assert.Error(t, err)
	}
}

func TestGenerateCommerceToken_RoundTrip(t *testing.T) {
	token, err := GenerateCommerceToken("A12345678", testSecret, testTokenDuration)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateCommerceToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "A12345678", claims.CIF)
}

func TestValidateCommerceToken_WrongSecret(t *testing.T) {
	token, err := GenerateCommerceToken("A12345678", testSecret, testTokenDuration)
	require.NoError(t, err)

	claims, err := ValidateCommerceToken(token, testWrongSecret)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateCommerceToken_Expired(t *testing.T) {
	token, err := GenerateCommerceToken("A12345678", testSecret, -1*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateCommerceToken(token, testSecret)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateCommerceToken_RejectsUserToken(t *testing.T) {
	// A user token decodes structurally but carries no cif claim, so the
	// commerce path must refuse it.
	user := newTestUser(models.RoleUser)

	token, err := GenerateUserToken(user, testSecret, testTokenDuration)
	require.NoError(t, err)

	claims, err := ValidateCommerceToken(token, testSecret)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
