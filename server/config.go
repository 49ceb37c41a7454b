package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// LoadConfig reads the config from cfgPath, or from statusdemo.toml in the working directory when cfgPath is empty.
// A missing default config file is not an error. The PORT environment variable always overrides the port,
// any other key can be overridden with the STATUSDEMO_ prefix.
func LoadConfig(cfgPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("statusdemo")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("statusdemo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("port", "PORT"); err != nil {
		return Config{}, fmt.Errorf("failed to bind port env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = "cfg"
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		)
	}); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("client_dir", d.ClientDir)
	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("log.level", d.Log.Level.String())
	v.SetDefault("log.format", string(d.Log.Format))
	v.SetDefault("log.add_source", d.Log.AddSource)
	v.SetDefault("log.no_color", d.Log.NoColor)
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests", d.RateLimit.Requests)
	v.SetDefault("rate_limit.duration", d.RateLimit.Duration)
	v.SetDefault("otel.instance_id", d.Otel.InstanceID)
	v.SetDefault("otel.trace.enabled", d.Otel.Trace.Enabled)
	v.SetDefault("otel.trace.endpoint", d.Otel.Trace.Endpoint)
	v.SetDefault("otel.trace.insecure", d.Otel.Trace.Insecure)
	v.SetDefault("otel.metrics.enabled", d.Otel.Metrics.Enabled)
	v.SetDefault("otel.metrics.listen_addr", d.Otel.Metrics.ListenAddr)
}

func defaultConfig() Config {
	return Config{
		Debug:       false,
		Host:        "",
		Port:        3000,
		ClientDir:   "client",
		HTTPTimeout: 0,
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
			NoColor:   false,
		},
		RateLimit: RateLimitConfig{
			Enabled:  false,
			Requests: 60,
			Duration: time.Minute,
		},
		Otel: OtelConfig{
			InstanceID: "1",
			Trace: TraceConfig{
				Enabled:  false,
				Endpoint: "localhost:4318",
				Insecure: false,
			},
			Metrics: MetricsConfig{
				Enabled:    false,
				ListenAddr: ":9100",
			},
		},
	}
}

type Config struct {
	Debug       bool            `cfg:"debug"`
	Host        string          `cfg:"host"`
	Port        int             `cfg:"port"`
	ClientDir   string          `cfg:"client_dir"`
	HTTPTimeout time.Duration   `cfg:"http_timeout"`
	Log         LogConfig       `cfg:"log"`
	RateLimit   RateLimitConfig `cfg:"rate_limit"`
	Otel        OtelConfig      `cfg:"otel"`
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ClientDir == "" {
		return errors.New("client_dir must not be empty")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Duration <= 0) {
		return errors.New("rate_limit requests and duration must be positive when enabled")
	}
	return nil
}

// ListenAddr returns the address the http server binds to.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) String() string {
	return fmt.Sprintf("Debug: %t\nHost: %s\nPort: %d\nClientDir: %s\nHTTPTimeout: %s\nLog: %s\nRateLimit: %s\nOtel: %s",
		c.Debug,
		c.Host,
		c.Port,
		c.ClientDir,
		c.HTTPTimeout,
		c.Log,
		c.RateLimit,
		c.Otel,
	)
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     slog.Level `cfg:"level"`
	Format    LogFormat  `cfg:"format"`
	AddSource bool       `cfg:"add_source"`
	NoColor   bool       `cfg:"no_color"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t\n NoColor: %t",
		c.Level,
		c.Format,
		c.AddSource,
		c.NoColor,
	)
}

type RateLimitConfig struct {
	Enabled  bool          `cfg:"enabled"`
	Requests int           `cfg:"requests"`
	Duration time.Duration `cfg:"duration"`
}

func (c RateLimitConfig) String() string {
	return fmt.Sprintf("\n Enabled: %t\n Requests: %d\n Duration: %s",
		c.Enabled,
		c.Requests,
		c.Duration,
	)
}

type OtelConfig struct {
	InstanceID string        `cfg:"instance_id"`
	Trace      TraceConfig   `cfg:"trace"`
	Metrics    MetricsConfig `cfg:"metrics"`
}

func (c OtelConfig) String() string {
	return fmt.Sprintf("\n InstanceID: %s\n Trace: %s\n Metrics: %s",
		c.InstanceID,
		c.Trace,
		c.Metrics,
	)
}

type TraceConfig struct {
	Enabled  bool   `cfg:"enabled"`
	Endpoint string `cfg:"endpoint"`
	Insecure bool   `cfg:"insecure"`
}

func (c TraceConfig) String() string {
	return fmt.Sprintf("\n  Enabled: %t\n  Endpoint: %s\n  Insecure: %t",
		c.Enabled,
		c.Endpoint,
		c.Insecure,
	)
}

type MetricsConfig struct {
	Enabled    bool   `cfg:"enabled"`
	ListenAddr string `cfg:"listen_addr"`
}

func (c MetricsConfig) String() string {
	return fmt.Sprintf("\n  Enabled: %t\n  ListenAddr: %s",
		c.Enabled,
		c.ListenAddr,
	)
}
