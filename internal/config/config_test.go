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

// isolate points every lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"VULCAN_DB", "VULCAN_MODE", "VULCAN_FEEDBACK_DELAY", "VULCAN_LOG_LEVEL", "VULCAN_LOG_FORMAT", "VULCAN_REMIND_AT", "VULCAN_LLM_PROVIDER", "VULCAN_LLM_MODEL", "VULCAN_LLM_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, "infinite", cfg.Mode)
	assert.Equal(t, 2500*time.Millisecond, cfg.FeedbackDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "19:00", cfg.RemindAt)
	assert.Empty(t, cfg.DBPath)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)

	file := filepath.Join(dir, "vulcan", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte(`
mode: single-cycle
feedback_delay: 1s
log:
  level: debug
  format: json
remind:
  at: "07:30"
llm:
  provider: gemini
`), 0o644))

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("VULCAN_LOG_LEVEL=warn\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("VULCAN_LOG_LEVEL") })

	t.Setenv("VULCAN_REMIND_AT", "21:15")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(FlagName(KeyLLMProvider), "", "")
	fs.String(FlagName(KeyMode), "", "")
	require.NoError(t, fs.Parse([]string{"--llm-provider=openai"}))

	cfg, err := Load(Options{EnvFile: envFile, Flags: fs})
	require.NoError(t, err)

	assert.Equal(t, "single-cycle", cfg.Mode, "file value; unset flag does not override")
	assert.Equal(t, time.Second, cfg.FeedbackDelay, "file")
	assert.Equal(t, "json", cfg.Log.Format, "file")
	assert.Equal(t, "warn", cfg.Log.Level, ".env beats file")
	assert.Equal(t, "21:15", cfg.RemindAt, "environment beats file")
	assert.Equal(t, "openai", cfg.LLM.Provider, "flag beats file")
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{File: filepath.Join(dir, "nope.yaml"), EnvFile: filepath.Join(dir, "none.env")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Mode: "infinite", FeedbackDelay: time.Second, Log: LogConfig{Level: "info", Format: "text"}, RemindAt: "19:00"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"mode", func(c *Config) { c.Mode = "forever" }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"delay", func(c *Config) { c.FeedbackDelay = 0 }},
		{"remind", func(c *Config) { c.RemindAt = "7pm" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "log-level", FlagName(KeyLogLevel))
	assert.Equal(t, "feedback-delay", FlagName(KeyFeedbackDelay))
	assert.Equal(t, "db", FlagName(KeyDB))
}
