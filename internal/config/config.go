package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	P4Binary string        `mapstructure:"p4_binary"`
	Syntax   string        `mapstructure:"syntax"`
	Format   string        `mapstructure:"format"`
	Color    string        `mapstructure:"color"`
	Theme    string        `mapstructure:"theme"`
	Timeout  time.Duration `mapstructure:"timeout"`
	StateDB  string        `mapstructure:"state_db"` // empty means the default cache location
	Watch    bool          `mapstructure:"watch"`
}

var (
	formats = []string{"text", "json", "yaml"}
	colors  = []string{"auto", "always", "never"}
	themes  = []string{"auto", "light", "dark"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("p4_binary", "p4")
	v.SetDefault("syntax", "relative")
	v.SetDefault("format", "text")
	v.SetDefault("color", "auto")
	v.SetDefault("theme", "auto")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("state_db", "")
	v.SetDefault("watch", true)
}

// DefaultPath returns <user config dir>/p4x/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "p4x", "config.yaml")
}

// Load merges defaults, the config file and P4X_* environment variables, in
// increasing order of precedence. An explicit path must exist; the default
// path is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("P4X")
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	var errs []error
	if err := oneOf("format", c.Format, formats); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("color", c.Color, colors); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("theme", c.Theme, themes); err != nil {
		errs = append(errs, err)
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	return errors.Join(errs...)
}

func oneOf(key, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (want one of %s)", key, value, strings.Join(allowed, ", "))
}
