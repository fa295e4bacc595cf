package utils

import (
	"testing"

	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPasswordHash("s3cret-password", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
	assert.False(t, CheckPasswordHash("s3cret-password", "not-a-hash"))
}

func TestGenerateAndValidateTokens(t *testing.T) {
	staff := &models.StaffAuth{
		ID:         "a5e3b2a0-0000-0000-0000-000000000001",
		Username:   "nurse.a",
		Role:       "staff",
		Department: "MED",
	}

	access, refresh, err := GenerateTokens(staff, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "nurse.a", claims["username"])
	assert.Equal(t, "staff", claims["role"])
	assert.Equal(t, "MED", claims["department"])

	// Refresh token carries only the id.
	refreshClaims, err := ValidateToken(refresh, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, refreshClaims["id"])
	assert.Nil(t, refreshClaims["username"])
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	staff := &models.StaffAuth{Username: "nurse.a"}
	access, _, err := GenerateTokens(staff, "test-secret")
	require.NoError(t, err)

	_, err = ValidateToken(access, "other-secret")
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token", "test-secret")
	assert.Error(t, err)
}
