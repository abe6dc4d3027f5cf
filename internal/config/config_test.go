package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := InitConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 5*time.Minute, cfg.RoomGracePeriod)
	assert.False(t, cfg.RejectResponses)
	assert.False(t, cfg.RedactSecrets)
	assert.Equal(t, "0.0.0.0:3001", cfg.Addr())
}

func TestInitConfig_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": 4000,
		"room_grace_period": "30s",
		"redact_secrets": true,
		"log_level": "debug"
	}`), 0o644))

	t.Setenv("UNDERCOVER_LOG_LEVEL", "warn")
	t.Setenv("UNDERCOVER_REJECT_RESPONSES", "true")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.Int("port", 3001, "")
	flags.Duration("room-grace-period", 5*time.Minute, "")
	require.NoError(t, flags.Parse([]string{"--port=5000"}))

	cfg, err := InitConfig(path, flags)
	require.NoError(t, err)

	// 命令行 > 环境变量 > 配置文件
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.RejectResponses)
	assert.True(t, cfg.RedactSecrets)
	assert.Equal(t, 30*time.Second, cfg.RoomGracePeriod)
}

func TestInitConfig_MissingExplicitFile(t *testing.T) {
	_, err := InitConfig(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := AppConfig{
		Port:            3001,
		LogFormat:       "json",
		RoomGracePeriod: time.Minute,
		ActionRate:      1,
		ActionBurst:     1,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"port too small", func(c *AppConfig) { c.Port = 0 }},
		{"port too large", func(c *AppConfig) { c.Port = 70000 }},
		{"zero grace period", func(c *AppConfig) { c.RoomGracePeriod = 0 }},
		{"zero rate", func(c *AppConfig) { c.ActionRate = 0 }},
		{"zero burst", func(c *AppConfig) { c.ActionBurst = 0 }},
		{"unknown log format", func(c *AppConfig) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
