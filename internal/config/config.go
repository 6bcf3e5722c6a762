package config

import (
	stderrors "errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vango-go/recipes/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RECIPES"

// DefaultFileName is looked up in the working directory when no file is
// given.
const DefaultFileName = "recipes"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Session  SessionConfig  `mapstructure:"session"`
	Resource ResourceConfig `mapstructure:"resource"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`

	// file is the config file that was read, if any.
	file string
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type UploadConfig struct {
	MaxFileSize  int64    `mapstructure:"max_file_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

type ResourceConfig struct {
	// MaxPerSession bounds the images a browser can fetch back.
	MaxPerSession int `mapstructure:"max_per_session"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Stdout exports finished spans to standard output.
	Stdout bool `mapstructure:"stdout"`
}

// File returns the path of the config file that was read, or "".
func (c *Config) File() string { return c.file }

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.read_header_timeout", 5*time.Second)

	v.SetDefault("upload.max_file_size", 10*1024*1024)
	v.SetDefault("upload.allowed_types", []string{})

	v.SetDefault("session.idle_timeout", 30*time.Minute)
	v.SetDefault("session.max_sessions", 10000)

	v.SetDefault("resource.max_per_session", 64)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.stdout", false)
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads the configuration. An empty path looks for recipes.{yaml,toml,json}
// in the working directory and tolerates its absence; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("E200").
				WithField(path).
				WithSuggestion("Check the file exists and is valid YAML, TOML or JSON").
				Wrap(err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("E200").Wrap(err)
	}
	cfg.file = v.ConfigFileUsed()
	cfg.Upload.AllowedTypes = splitList(cfg.Upload.AllowedTypes)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList flattens comma-separated entries, which is how a list arrives
// from an environment variable.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New("E300").
			WithField("server.addr").
			WithSuggestion("Use host:port, e.g. :8080").
			Wrap(err)
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"server.read_header_timeout", c.Server.ReadHeaderTimeout},
		{"session.idle_timeout", c.Session.IdleTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return errors.New("E201").
				WithField(d.key).
				WithSuggestion(fmt.Sprintf("Got %s; set a positive duration such as 30s", d.value))
		}
	}

	if c.Upload.MaxFileSize <= 0 {
		return errors.New("E100").
			WithField("upload.max_file_size").
			WithSuggestion("Set a positive size in bytes, e.g. 10485760")
	}
	for _, pattern := range c.Upload.AllowedTypes {
		if !validTypePattern(pattern) {
			return errors.New("E101").
				WithField("upload.allowed_types").
				WithSuggestion(fmt.Sprintf("%q is not type/subtype or type/*", pattern))
		}
	}

	if c.Session.MaxSessions <= 0 {
		return errors.New("E204").WithField("session.max_sessions")
	}
	if c.Resource.MaxPerSession <= 0 {
		return errors.New("E204").WithField("resource.max_per_session")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E203").
			WithField("log.format").
			WithSuggestion(fmt.Sprintf("Got %q; use text or json", c.Log.Format))
	}
	return nil
}

func validTypePattern(pattern string) bool {
	major, minor, ok := strings.Cut(pattern, "/")
	if !ok || major == "" || minor == "" || major == "*" {
		return false
	}
	return !strings.ContainsAny(pattern, " ;,")
}
