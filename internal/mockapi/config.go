package mockapi

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config controls the mock server. Every key can be set in a YAML or TOML
// file or through STAYFINDER_MOCK_<KEY> environment variables.
type Config struct {
	Addr        string `mapstructure:"addr"`
	Fixtures    string `mapstructure:"fixtures"`
	Watch       bool   `mapstructure:"watch"`
	DatabaseURL string `mapstructure:"database_url"`
	LogLevel    string `mapstructure:"log_level"`
	// BcryptCost is lowered in tests.
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// EnvPrefix namespaces the environment overrides.
const EnvPrefix = "STAYFINDER_MOCK"

// LoadConfig reads path when set and layers environment variables on top of
// the defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", "127.0.0.1:5000")
	v.SetDefault("fixtures", "")
	v.SetDefault("watch", false)
	v.SetDefault("database_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("bcrypt_cost", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate rejects combinations Build cannot honour.
func (c Config) Validate() error {
	if c.Watch && c.Fixtures == "" {
		return fmt.Errorf("watch needs a fixtures file")
	}
	if c.BcryptCost < 0 {
		return fmt.Errorf("bcrypt_cost must not be negative")
	}
	return nil
}
