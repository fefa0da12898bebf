package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("user-1", RoleFaculty, "campusevents", "secret", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := Parse(pair.AccessToken, "secret", "campusevents")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, RoleFaculty, claims.Role)
}

func TestIssueTokensAreDistinct(t *testing.T) {
	// Back-to-back issues land in the same second, so iat/exp match;
	// the jti must still make every token unique.
	first, err := Issue("user-1", RoleStudent, "campusevents", "secret", time.Minute, time.Hour)
	require.NoError(t, err)
	second, err := Issue("user-1", RoleStudent, "campusevents", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, first.RefreshToken)
}

func TestParseRejectsWrongKey(t *testing.T) {
	pair, err := Issue("user-1", RoleStudent, "campusevents", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-secret", "campusevents")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	pair, err := Issue("user-1", RoleStudent, "someone-else", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "campusevents")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	pair, err := Issue("user-1", RoleStudent, "campusevents", "secret", -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "campusevents")
	assert.Error(t, err)
}
