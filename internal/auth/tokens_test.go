package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour)
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := issuer.Verify(token, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestIssueAndVerifyRefreshToken(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueRefreshToken(7)
	require.NoError(t, err)

	userID, err := issuer.Verify(token, PurposeRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestVerifyRejectsWrongPurpose(t *testing.T) {
	issuer := newTestIssuer()

	access, err := issuer.IssueAccessToken(1)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefreshToken(1)
	require.NoError(t, err)

	_, err = issuer.Verify(access, PurposeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(refresh, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := issuer.IssueAccessToken(1)
	require.NoError(t, err)

	_, err = issuer.Verify(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := newTestIssuer()
	other := NewIssuer("other-access", "other-refresh", 15*time.Minute, time.Hour)

	token, err := other.IssueAccessToken(1)
	require.NoError(t, err)

	_, err = issuer.Verify(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	issuer := newTestIssuer()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(token, PurposeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
