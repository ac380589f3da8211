// Package config loads the authorizer's settings from the environment and
// an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Domain          string        `mapstructure:"auth0_domain" validate:"required,hostname"`
	Audience        string        `mapstructure:"auth0_audience" validate:"required"`
	KeyFetchTimeout time.Duration `mapstructure:"auth0_key_fetch_timeout" default:"5s" validate:"gt=0"`

	// Zero disables key set caching.
	JWKSCacheTTL  time.Duration `mapstructure:"auth0_jwks_cache_ttl" validate:"gte=0"`
	RedisAddr     string        `mapstructure:"auth0_redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string        `mapstructure:"auth0_redis_password" secret:"true"`

	LogLevel  string `mapstructure:"log_level" default:"info" validate:"oneof=trace debug info warn error"`
	LogFormat string `mapstructure:"log_format" default:"json" validate:"oneof=json text"`
	HTTPAddr  string `mapstructure:"http_addr" default:":8080" validate:"required"`
}

// Load reads configuration from environment variables, falling back to a
// config file and then to defaults. file may be empty, in which case
// config.yaml is looked up in the working directory and ./config.
func Load(file string) (*Config, error) {
	cfg := Config{}
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set struct defaults: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	t := reflect.TypeOf(cfg)
	val := reflect.ValueOf(cfg)
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("mapstructure")
		v.SetDefault(key, val.Field(i).Interface())
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its validate tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CachingEnabled reports whether fetched key sets should be reused.
func (c *Config) CachingEnabled() bool {
	return c.JWKSCacheTTL > 0
}

// String returns a string representation of the config with secret fields redacted.
func (c *Config) String() string {
	v := reflect.ValueOf(*c)
	t := reflect.TypeOf(*c)

	var sb strings.Builder
	sb.WriteString("Config{")
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i).Interface()
		if field.Tag.Get("secret") == "true" && !v.Field(i).IsZero() {
			value = "***REDACTED***"
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", field.Name, value)
	}
	sb.WriteString("}")
	return sb.String()
}
