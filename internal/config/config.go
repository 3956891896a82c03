package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TAGEXTRACT_TAB_WIDTH.
const EnvPrefix = "TAGEXTRACT"

type Config struct {
	TabWidth int    `mapstructure:"tab_width"`
	Strategy string `mapstructure:"strategy"`
	// Dialect is the fallback when neither --markdown nor --zim is given.
	Dialect string `mapstructure:"dialect"`

	Server ServerConfig `mapstructure:"server"`
	Batch  BatchConfig  `mapstructure:"batch"`
	Watch  WatchConfig  `mapstructure:"watch"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	// Auth is disabled when empty.
	APIKey         string `mapstructure:"api_key"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	CacheSize      int    `mapstructure:"cache_size"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

func Default() Config {
	return Config{
		TabWidth: outline.DefaultTabWidth,
		Strategy: "indent",
		Server: ServerConfig{
			Port:           "8090",
			MaxUploadBytes: 10 << 20, // 10MB
			CacheSize:      128,
		},
		Batch: BatchConfig{Workers: 4},
		Watch: WatchConfig{Debounce: 300 * time.Millisecond},
	}
}

// Load resolves configuration from defaults, an optional config file and
// TAGEXTRACT_* environment variables, in increasing priority. Flags bound to
// v with BindPFlag take precedence over all of them. When configFile is empty
// ".tagextract.yaml" is looked up in the working directory and then $HOME.
func Load(v *viper.Viper, configFile string) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".tagextract")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("tab_width", d.TabWidth)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("dialect", d.Dialect)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.cache_size", d.Server.CacheSize)

	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

func (c Config) Validate() error {
	if c.TabWidth <= 0 {
		return fmt.Errorf("tab_width must be positive, got %d", c.TabWidth)
	}
	if _, err := outline.StrategyByName(c.Strategy); err != nil {
		return err
	}
	if c.Dialect != "" {
		if _, err := outline.DialectByName(c.Dialect); err != nil {
			return err
		}
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Server.CacheSize <= 0 {
		return fmt.Errorf("server.cache_size must be positive, got %d", c.Server.CacheSize)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}
