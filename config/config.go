package config

import (
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type MonitorConfig struct {
	IntervalMinutes int    `mapstructure:"interval_minutes"`
	Timeout         string `mapstructure:"timeout"`
	Parallel        bool   `mapstructure:"parallel"`
	MaxConcurrency  int    `mapstructure:"max_concurrency"`
	HistorySize     int    `mapstructure:"history_size"`
}

type APIConfig struct {
	ValidateRPS       float64 `mapstructure:"validate_rps"`
	ValidateBurst     int     `mapstructure:"validate_burst"`
	TrustForwardedFor bool    `mapstructure:"trust_forwarded_for"`
}

type AlertingConfig struct {
	WebhookURL       string `mapstructure:"webhook_url"`
	Timeout          string `mapstructure:"timeout"`
	FailureThreshold int    `mapstructure:"failure_threshold"`
	ResetTimeout     string `mapstructure:"reset_timeout"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	API      APIConfig      `mapstructure:"api"`
	Alerting AlertingConfig `mapstructure:"alerting"`
}

// Interval is the time between scheduled validation passes.
func (m MonitorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalMinutes) * time.Minute
}

// ProbeTimeout is the budget for a single destination probe.
func (m MonitorConfig) ProbeTimeout() time.Duration {
	d, _ := time.ParseDuration(m.Timeout)
	return d
}

// Concurrency is the number of routes probed at once within a pass.
func (m MonitorConfig) Concurrency() int {
	if !m.Parallel {
		return 1
	}
	return m.MaxConcurrency
}

func (a AlertingConfig) Enabled() bool {
	return a.WebhookURL != ""
}

func (a AlertingConfig) DeliveryTimeout() time.Duration {
	d, _ := time.ParseDuration(a.Timeout)
	return d
}

func (a AlertingConfig) BreakerResetTimeout() time.Duration {
	d, _ := time.ParseDuration(a.ResetTimeout)
	return d
}

// Load reads configuration with environment variables taking precedence over
// the file and the file over defaults. An empty file searches for config.yaml
// in ./config and the working directory.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("monitor.interval_minutes", 1440)
	v.SetDefault("monitor.timeout", "10s")
	v.SetDefault("monitor.parallel", false)
	v.SetDefault("monitor.max_concurrency", 4)
	v.SetDefault("monitor.history_size", 20)
	v.SetDefault("api.validate_rps", 0.1)
	v.SetDefault("api.validate_burst", 2)
	v.SetDefault("api.trust_forwarded_for", false)
	v.SetDefault("alerting.webhook_url", "")
	v.SetDefault("alerting.timeout", "5s")
	v.SetDefault("alerting.failure_threshold", 3)
	v.SetDefault("alerting.reset_timeout", "5m")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Monitor,
			validation.Required,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MonitorConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MonitorConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.IntervalMinutes,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&mc.Timeout,
						validation.Required,
						validation.By(validatePositiveDuration),
					),
					validation.Field(&mc.MaxConcurrency,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&mc.HistorySize,
						validation.Required,
						validation.Min(1),
					),
				)
			}),
		),
		validation.Field(&c.API,
			validation.Required,
			validation.By(func(value interface{}) error {
				ac, ok := value.(APIConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an APIConfig")
				}
				return validation.ValidateStruct(&ac,
					validation.Field(&ac.ValidateRPS,
						validation.Required,
						validation.Min(0.0).Exclusive(),
					),
					validation.Field(&ac.ValidateBurst,
						validation.Required,
						validation.Min(1),
					),
				)
			}),
		),
		validation.Field(&c.Alerting,
			validation.By(func(value interface{}) error {
				al, ok := value.(AlertingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an AlertingConfig")
				}
				if !al.Enabled() {
					return nil
				}
				return validation.ValidateStruct(&al,
					validation.Field(&al.WebhookURL,
						validation.By(validateWebhookURL),
					),
					validation.Field(&al.Timeout,
						validation.Required,
						validation.By(validatePositiveDuration),
					),
					validation.Field(&al.FailureThreshold,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&al.ResetTimeout,
						validation.Required,
						validation.By(validatePositiveDuration),
					),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validatePositiveDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}

func validateWebhookURL(value interface{}) error {
	webhookURL, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(webhookURL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
