package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the editor settings
type Config struct {
	// TabWidth is the tab stop used when rendering lines
	TabWidth int `mapstructure:"tab_width"`
	// QuitTimes is how many quit requests a modified buffer needs
	QuitTimes int `mapstructure:"quit_times"`
	// SpareDir receives a copy of the buffer when saving to the original path fails
	SpareDir string `mapstructure:"spare_dir"`
	// MessageTimeout is how long a status message stays visible
	MessageTimeout time.Duration `mapstructure:"message_timeout"`
	LogFile        string        `mapstructure:"log_file"`
	Debug          bool          `mapstructure:"debug"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"tab-width":  "tab_width",
	"quit-times": "quit_times",
	"spare-dir":  "spare_dir",
	"log-file":   "log_file",
	"debug":      "debug",
}

// Load reads configuration from path, or from the default locations when path
// is empty, then applies TED_* environment variables and any flags that were
// set on the command line.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("$HOME/.config/ted")
		v.AddConfigPath(".")
	}

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("TED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	applyDefaults(v)

	var cfg Config
	// defaults are plain values, decoding them cannot fail
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate validates the configuration values
func Validate(cfg *Config) error {
	if cfg.TabWidth < 1 || cfg.TabWidth > 32 {
		return fmt.Errorf("tab_width must be between 1 and 32, got %d", cfg.TabWidth)
	}
	if cfg.QuitTimes < 1 {
		return fmt.Errorf("quit_times must be >= 1, got %d", cfg.QuitTimes)
	}
	if cfg.SpareDir == "" {
		return fmt.Errorf("spare_dir cannot be empty")
	}
	if cfg.MessageTimeout <= 0 {
		return fmt.Errorf("message_timeout must be positive, got %v", cfg.MessageTimeout)
	}
	return nil
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	v.SetDefault("tab_width", 8)
	v.SetDefault("quit_times", 3)
	v.SetDefault("spare_dir", os.TempDir())
	v.SetDefault("message_timeout", "5s")
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
}
