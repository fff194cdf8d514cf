package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"credgate/internal/domain/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  env: develop
  serviceName: credgate
  log:
    level: debug
http:
  port: 9000
  timeouts:
    readTimeout: 5s
token:
  secret: from-file
auth:
  bcryptCost: 4
  accessTokenTTL: 15m
store:
  driver: memory
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o600))

	return dir
}

func TestLoadWithEnv_ReadsFileAndEnvOverrides(t *testing.T) {
	dir := writeConfig(t, "config", testYAML)
	t.Chdir(dir)
	t.Setenv("TOKEN_SECRET", "from-env")
	t.Setenv("AUTH_ACCESSTOKENTTL", "45s")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "credgate", cfg.Env.ServiceName)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	assert.Equal(t, "from-env", cfg.Token.Secret)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 45*time.Second, cfg.Auth.AccessTokenTTL)
	require.NotNil(t, cfg.Store)
	assert.Equal(t, constants.StoreDriverMemory, cfg.Store.Driver)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultHTTPPort, cfg.HTTP.Port)
	assert.Equal(t, defaultWorkerPort, cfg.Worker.Port)
	assert.Equal(t, defaultTokenAlgorithm, cfg.Token.Algorithm)
	assert.Equal(t, defaultAccessTokenTTL, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, constants.StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, defaultSQLitePath, cfg.Store.SQLite.Path)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{
		Auth:  &AuthConfig{AccessTokenTTL: time.Minute},
		Store: &StoreConfig{Driver: constants.StoreDriverMemory},
	}
	cfg.Token.Algorithm = "HS512"

	applyDefaults(cfg)

	assert.Equal(t, "HS512", cfg.Token.Algorithm)
	assert.Equal(t, time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, constants.StoreDriverMemory, cfg.Store.Driver)
	assert.Empty(t, cfg.Store.SQLite.Path)
}

func TestApplyDefaults_NormalizesAlgorithm(t *testing.T) {
	cfg := &Config{}
	cfg.Token.Algorithm = " hs384 "

	applyDefaults(cfg)

	assert.Equal(t, "HS384", cfg.Token.Algorithm)
	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)

		return cfg
	}

	require.NoError(t, valid().validate())

	tests := []struct {
		name   string
		mutate func(cfg *Config)
		want   string
	}{
		{name: "asymmetric algorithm", mutate: func(cfg *Config) { cfg.Token.Algorithm = "RS256" }, want: "not an HMAC"},
		{name: "unknown driver", mutate: func(cfg *Config) { cfg.Store.Driver = "mysql" }, want: "unknown store.driver"},
		{name: "postgres without connection", mutate: func(cfg *Config) { cfg.Store.Driver = constants.StoreDriverPostgres }, want: "postgres configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
