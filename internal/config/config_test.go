package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFilePath, "")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "shespeaks", c.Mongo.Database)
	assert.Equal(t, "responses", c.Mongo.Collection)
	assert.Equal(t, 5*time.Minute, c.Cache.TTL)
	assert.Equal(t, 10*time.Second, c.Mongo.FetchRetry)
	assert.True(t, c.IsLocal())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
environment: staging
port: "9090"
logging:
  level: debug
mongo:
  uri: mongodb://db:27017
  collection: submissions
cache:
  ttl: 2m
auth:
  jwt_secret: from-file
cors:
  allowed_origins: ["https://dash.example.org"]
`)
	t.Setenv(EnvConfigFilePath, path)
	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvCacheTTL, "90s")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, "7070", c.Port, "env wins over file")
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "mongodb://db:27017", c.Mongo.URI)
	assert.Equal(t, "shespeaks", c.Mongo.Database, "unset keys keep defaults")
	assert.Equal(t, "submissions", c.Mongo.Collection)
	assert.Equal(t, 90*time.Second, c.Cache.TTL)
	assert.Equal(t, []string{"https://dash.example.org"}, c.CORS.AllowedOrigins)
	assert.False(t, c.IsLocal())
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	t.Setenv(EnvConfigFilePath, writeConfig(t, "prot: 8080\n"))
	_, err := Load()
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv(EnvConfigFilePath, "")
	t.Setenv(EnvCacheTTL, "five minutes")
	_, err := Load()
	assert.ErrorContains(t, err, EnvCacheTTL)
}

func TestLoad_CORSList(t *testing.T) {
	t.Setenv(EnvConfigFilePath, "")
	t.Setenv(EnvCORSOrigins, "https://a.example, ,https://b.example")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	c.Environment = "production"
	assert.ErrorContains(t, c.Validate(), EnvJWTSecret)
	c.Auth.JWTSecret = "s3cret"
	assert.NoError(t, c.Validate())

	c.Cache.TTL = 0
	assert.Error(t, c.Validate())

	c = Default()
	c.Mongo.Collection = ""
	assert.Error(t, c.Validate())
}
