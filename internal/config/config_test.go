package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: sharehub
  environment: test
server:
  port: 9091
gateway:
  port: 8081
  server_url: http://localhost:9091
database:
  path: test.db
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sharehub", cfg.App.Name)
	assert.Equal(t, 9091, cfg.Server.Port)
	assert.Equal(t, 8081, cfg.Gateway.Port)
	assert.Equal(t, "http://localhost:9091", cfg.Gateway.ServerURL)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "env.db")

	path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Database.Path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sharehub", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.Equal(t, "http://localhost:9090", cfg.Gateway.ServerURL)
	assert.Equal(t, 60, cfg.Gateway.RateLimit.Requests)
	assert.Equal(t, 60, cfg.Gateway.RateLimit.Window)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				Database: DatabaseConfig{Path: "test.db"},
				Server:   ServerConfig{Port: 9090},
				Gateway:  GatewayConfig{Port: 8080},
			},
		},
		{
			name:    "missing database path",
			cfg:     Config{Server: ServerConfig{Port: 9090}, Gateway: GatewayConfig{Port: 8080}},
			wantErr: true,
		},
		{
			name: "shared port",
			cfg: Config{
				Database: DatabaseConfig{Path: "test.db"},
				Server:   ServerConfig{Port: 8080},
				Gateway:  GatewayConfig{Port: 8080},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
