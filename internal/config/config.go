// Package config resolves runtime settings from defaults, an optional
// YAML file, a .env file, VULCAN_* environment variables and command
// flags, in increasing priority.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. VULCAN_LOG_LEVEL.
const EnvPrefix = "VULCAN"

// Keys.
const (
	KeyDB            = "db"
	KeyMode          = "mode"
	KeyFeedbackDelay = "feedback_delay"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyRemindAt      = "remind.at"
	KeyLLMProvider   = "llm.provider"
	KeyLLMModel      = "llm.model"
	KeyLLMAPIKey     = "llm.api_key"
)

// Config is the resolved configuration.
type Config struct {
	DBPath        string
	Mode          string
	FeedbackDelay time.Duration
	Log           LogConfig
	RemindAt      string // HH:MM, local time
	LLM           LLMConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// LLMConfig overrides the provider discovered from the environment.
type LLMConfig struct {
	Provider string
	Model    string
	APIKey   string
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When empty the default location is
	// read if it exists.
	File string
	// EnvFile is loaded into the process environment before resolving.
	// Defaults to ".env"; a missing file is ignored.
	EnvFile string
	// Flags are bound over every other source. Flag names use dashes
	// for dots and underscores, e.g. --log-level, --feedback-delay.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "load %s", envFile)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := opts.File
	if file == "" {
		file = DefaultFile()
	}
	if file != "" {
		if _, err := os.Stat(file); err == nil {
			v.SetConfigFile(file)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "read config %s", file)
			}
		} else if opts.File != "" {
			return nil, errors.Wrapf(err, "config file %s", file)
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		DBPath:        v.GetString(KeyDB),
		Mode:          v.GetString(KeyMode),
		FeedbackDelay: v.GetDuration(KeyFeedbackDelay),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		RemindAt: v.GetString(KeyRemindAt),
		LLM: LLMConfig{
			Provider: v.GetString(KeyLLMProvider),
			Model:    v.GetString(KeyLLMModel),
			APIKey:   v.GetString(KeyLLMAPIKey),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyMode, "infinite")
	v.SetDefault(KeyFeedbackDelay, 2500*time.Millisecond)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyRemindAt, "19:00")
	v.SetDefault(KeyLLMProvider, "")
	v.SetDefault(KeyLLMModel, "")
	v.SetDefault(KeyLLMAPIKey, "")
}

// bindFlags binds every known key whose flag exists in fs.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyDB, KeyMode, KeyFeedbackDelay, KeyLogLevel, KeyLogFormat, KeyRemindAt, KeyLLMProvider, KeyLLMModel} {
		f := fs.Lookup(FlagName(key))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag --%s", f.Name)
		}
	}
	return nil
}

// FlagName returns the command-line flag bound to key.
func FlagName(key string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(key)
}

// Validate checks enumerated values and formats.
func (c *Config) Validate() error {
	switch c.Mode {
	case "single-cycle", "infinite":
	default:
		return errors.Errorf("invalid mode %q (want single-cycle or infinite)", c.Mode)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.FeedbackDelay <= 0 {
		return errors.Errorf("feedback delay must be positive, got %s", c.FeedbackDelay)
	}
	if _, err := time.Parse("15:04", c.RemindAt); err != nil {
		return errors.Wrapf(err, "invalid reminder time %q (want HH:MM)", c.RemindAt)
	}
	return nil
}

// DefaultFile is $XDG_CONFIG_HOME/vulcan/config.yaml, falling back to
// ~/.config. It returns "" when no home directory is known.
func DefaultFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "vulcan", "config.yaml")
}

// DataDir is the directory holding the database and log file.
func (c *Config) DataDir() string {
	return filepath.Dir(c.DBPath)
}
