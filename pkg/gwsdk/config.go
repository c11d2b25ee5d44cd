package gwsdk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	BaseURL  string `mapstructure:"baseUrl"`
	Timezone string `mapstructure:"timezone"`

	v *viper.Viper // instance-specific viper
}

const (
	EnvPrefix  = "GATEWAY"
	ConfigName = "gateway"
	ConfigRoot = ".gateway"

	BaseUrlKey  = "baseUrl"
	TimezoneKey = "timezone"

	DefaultBaseURL = "http://localhost:3000"
)

// LoadConfig reads gateway.yaml from the working directory, merges the
// untracked .gateway/config.yaml over it and applies GATEWAY_* environment
// overrides. cfgFile replaces both files when set.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about
	_ = v.BindEnv(BaseUrlKey, EnvPrefix+"_BASE_URL")
	_ = v.BindEnv(TimezoneKey, EnvPrefix+"_TIMEZONE")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		for _, name := range []string{ConfigName + ".yaml", ConfigName + ".yml", "." + ConfigName + ".yaml"} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err == nil {
					break
				}
			}
		}

		localConfigPath := filepath.Join(ConfigRoot, "config.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merging local config: %w", err)
			}
		}
	}

	v.SetDefault(BaseUrlKey, DefaultBaseURL)
	v.SetDefault(TimezoneKey, "UTC")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	cfg.v = v
	return &cfg, nil
}

// Viper returns the underlying viper instance, for flag binding.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// ConfigFileUsed returns the config file that was used (if any)
func (c *Config) ConfigFileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}
