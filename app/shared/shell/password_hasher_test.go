package shell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
)

func Test_SHA256Hasher_Hash(t *testing.T) {
	hash, err := shell.SHA256Hasher{}.Hash("secret")

	require.NoError(t, err)
	assert.Equal(t, "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b", hash)
}

func Test_BcryptHasher_Hash(t *testing.T) {
	// act
	hash, err := shell.BcryptHasher{Cost: bcrypt.MinCost}.Hash("secret")

	// assert
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("other")))
}

func Test_NewPasswordHasher(t *testing.T) {
	sha, err := shell.NewPasswordHasher("sha256")
	require.NoError(t, err)
	assert.IsType(t, shell.SHA256Hasher{}, sha)

	bc, err := shell.NewPasswordHasher("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, shell.BcryptHasher{}, bc)

	_, err = shell.NewPasswordHasher("md5")
	assert.Error(t, err)
}
