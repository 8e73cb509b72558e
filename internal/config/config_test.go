package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// chdirTemp runs the rest of the test from an empty directory so a stray
// iso20022-engine.yaml in the repo cannot leak into Load.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, 256, cfg.Compliance.HistorySize)
	assert.Len(t, cfg.Compliance.MessageTypes, 4, "every implemented family is enabled by default")
	assert.NotEmpty(t, cfg.Assets, "the built-in asset table applies when none is configured")
}

func TestLoadFromFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
server:
  port: 9090
logging:
  level: debug
  development: true
compliance:
  history_size: 32
  message_types:
    - pain.001.001.03
assets:
  - symbol: BTC
    name: Bitcoin
    decimals: 8
    minimum_amount: "0.0001"
    maximum_amount: "100"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "iso20022-engine.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 32, cfg.Compliance.HistorySize)
	assert.Equal(t, []iso20022.MessageType{iso20022.PaymentInitiation}, cfg.Compliance.EnabledMessageTypes())

	require.Len(t, cfg.Assets, 1)
	assert.Equal(t, "BTC", cfg.Assets[0].Symbol)
	assert.Equal(t, "0.0001", cfg.Assets[0].Min)
	assert.Equal(t, "100", cfg.Assets[0].Max)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ISO20022_SERVER_PORT", "9999")
	t.Setenv("ISO20022_LOGGING_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	cases := map[string]string{
		"bad port": `
server:
  port: -1
`,
		"unknown message type": `
compliance:
  message_types:
    - pacs.008.001.02
`,
		"no message types": `
compliance:
  message_types: []
`,
		"bad history size": `
compliance:
  history_size: 0
`,
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			dir := chdirTemp(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "iso20022-engine.yaml"), []byte(yaml), 0o644))
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Compliance: ComplianceConfig{
			MessageTypes: []string{string(iso20022.PaymentInitiation)},
			HistorySize:  16,
		},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}
