package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/authguard/internal/domain"
)

func TestNewPassword_Policy(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"valid", "Sup3rSecret", true},
		{"too short", "Ab1", false},
		{"no uppercase", "lowercase1", false},
		{"no lowercase", "UPPERCASE1", false},
		{"no digit", "NoDigitsHere", false},
		{"exactly minimum", "Abcdef12", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPassword(tc.raw)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrWeakPassword)
			}
		})
	}
}

func TestPassword_HashAndVerify(t *testing.T) {
	password, err := NewPassword("Sup3rSecret")
	require.NoError(t, err)

	hash, err := password.Hash()
	require.NoError(t, err)
	assert.NotContains(t, hash.String(), "Sup3rSecret")

	assert.True(t, hash.Verify("Sup3rSecret"))
	assert.False(t, hash.Verify("WrongPass1"))
	assert.False(t, hash.Verify(""))
}

func TestPassword_StringIsMasked(t *testing.T) {
	password, err := NewPassword("Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, "********", password.String())
}

func TestNewPasswordHash_RejectsEmpty(t *testing.T) {
	_, err := NewPasswordHash("")
	assert.Error(t, err)
}
