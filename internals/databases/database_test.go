package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_session_backend/internals/configs"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://x", DSN(configs.DBConfig{URL: "postgres://x", Host: "ignored"}))

	dsn := DSN(configs.DBConfig{
		Host:             "db",
		Port:             "5433",
		User:             "quiz",
		Password:         "p@ss word",
		Name:             "quiz",
		SSLMode:          "disable",
		StatementTimeout: 2500,
	})
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:5433", u.Host)
	assert.Equal(t, "/quiz", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "-c statement_timeout=2500", u.Query().Get("options"))
}
