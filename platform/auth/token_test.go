package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	raw, err := Issue("secret", "user-1")
	require.NoError(t, err)

	id, err := Parse("secret", raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestParseRejects(t *testing.T) {
	raw, err := Issue("secret", "user-1")
	require.NoError(t, err)

	_, err = Parse("other", raw)
	assert.ErrorIs(t, err, ErrBadToken)

	_, err = Parse("secret", "garbage")
	assert.ErrorIs(t, err, ErrBadToken)

	_, err = UserID(nil)
	assert.ErrorIs(t, err, ErrBadToken)
}
