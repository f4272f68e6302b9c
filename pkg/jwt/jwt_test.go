package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := Generate("secreto", "user-1", RoleAdmin, "resonaweb", 10)
	require.NoError(t, err)

	userID, role, err := Parse("secreto", "resonaweb", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, RoleAdmin, role)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := Generate("secreto", "user-1", RoleCustomer, "resonaweb", 10)
	require.NoError(t, err)

	_, _, err = Parse("otro", "resonaweb", token)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = Parse("secreto", "otro-emisor", token)
	assert.Error(t, err, "emisor distinto")

	expired, err := Generate("secreto", "user-1", RoleCustomer, "resonaweb", -1)
	require.NoError(t, err)
	_, _, err = Parse("secreto", "resonaweb", expired)
	assert.Error(t, err, "token expirado")

	_, _, err = Parse("", "", token)
	assert.Error(t, err)

	_, err = Generate("", "user-1", RoleAdmin, "", 10)
	assert.Error(t, err)
}
