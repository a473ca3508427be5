package cryptox_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yohannes4321/MissionForNation/pkg/cryptox"
)

func TestGenerateToken(t *testing.T) {
	a, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	b, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)

	require.Len(t, a, 43)
	require.NotEqual(t, a, b)

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintIsDeterministic(t *testing.T) {
	require.Equal(t, cryptox.FingerprintToken("abc"), cryptox.FingerprintToken("abc"))
	require.NotEqual(t, cryptox.FingerprintToken("abc"), cryptox.FingerprintToken("abd"))
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := cryptox.HashPassword("hunter2!")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, cryptox.VerifyPassword("hunter2!", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("hunter3!", hash), cryptox.ErrPasswordMismatch)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	require.Error(t, cryptox.VerifyPassword("x", "not-a-hash"))
	require.Error(t, cryptox.VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$AA$AA"))
}
