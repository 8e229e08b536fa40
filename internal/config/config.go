package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel   string           `mapstructure:"log_level"`
	Server     ServerConfig     `mapstructure:"server"`
	Untokenize UntokenizeConfig `mapstructure:"untokenize"`
	Check      CheckConfig      `mapstructure:"check"`
}

type ServerConfig struct {
	ListenAddr      string  `mapstructure:"listen_addr"`
	MaxTextBytes    int     `mapstructure:"max_text_bytes"`
	Workers         int     `mapstructure:"workers"`
	RequestTimeout  int     `mapstructure:"request_timeout"`
	ShutdownTimeout int     `mapstructure:"shutdown_timeout"`
	RateLimit       float64 `mapstructure:"rate_limit"`
	RateBurst       int     `mapstructure:"rate_burst"`
}

type UntokenizeConfig struct {
	Policy string `mapstructure:"policy"`
}

type CheckConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxTextBytes:    1 << 20,
			Workers:         4,
			RequestTimeout:  10,
			ShutdownTimeout: 30,
			RateLimit:       0,
			RateBurst:       10,
		},
		Untokenize: UntokenizeConfig{
			Policy: PolicyStrict,
		},
		Check: CheckConfig{
			Concurrency: 4,
		},
	}
}

// flagKeys maps each registered flag to its config key.
var flagKeys = map[string]string{
	"log-level":               "log_level",
	"server-listen-addr":      "server.listen_addr",
	"server-max-text-bytes":   "server.max_text_bytes",
	"workers":                 "server.workers",
	"server-request-timeout":  "server.request_timeout",
	"server-shutdown-timeout": "server.shutdown_timeout",
	"server-rate-limit":       "server.rate_limit",
	"server-rate-burst":       "server.rate_burst",
	"untokenize-policy":       "untokenize.policy",
	"check-concurrency":       "check.concurrency",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request text size in bytes")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent tokenization requests (0 = unlimited)")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request deadline in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
	fs.Float64("server-rate-limit", defaults.Server.RateLimit, "Requests per second across all clients (0 = off)")
	fs.Int("server-rate-burst", defaults.Server.RateBurst, "Rate limiter burst size")
	fs.String("untokenize-policy", defaults.Untokenize.Policy, "Index collision policy (strict|last-write-wins)")
	fs.Int("check-concurrency", defaults.Check.Concurrency, "Files verified in parallel by check")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("RETOK")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("retok")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// normalize canonicalizes enumerated fields and rejects values the server
// and CLI cannot run with.
func (c *Config) normalize() error {
	policy, err := NormalizePolicy(c.Untokenize.Policy)
	if err != nil {
		return err
	}
	c.Untokenize.Policy = policy

	switch {
	case c.Server.MaxTextBytes <= 0:
		return fmt.Errorf("server.max_text_bytes must be positive, got %d", c.Server.MaxTextBytes)
	case c.Server.RequestTimeout <= 0:
		return fmt.Errorf("server.request_timeout must be positive, got %d", c.Server.RequestTimeout)
	case c.Server.Workers < 0:
		return fmt.Errorf("server.workers must not be negative, got %d", c.Server.Workers)
	case c.Server.RateLimit < 0:
		return fmt.Errorf("server.rate_limit must not be negative, got %v", c.Server.RateLimit)
	case c.Check.Concurrency <= 0:
		return fmt.Errorf("check.concurrency must be positive, got %d", c.Check.Concurrency)
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit", c.Server.RateLimit)
	v.SetDefault("server.rate_burst", c.Server.RateBurst)
	v.SetDefault("untokenize.policy", c.Untokenize.Policy)
	v.SetDefault("check.concurrency", c.Check.Concurrency)
}

// bindFlags binds every registered flag present in fs to its config key.
// Flags bound this way only override file and env values when set.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
