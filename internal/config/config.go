// Package config loads the engine configuration: server settings, the
// enabled message-type set, and the crypto-asset registry table. The
// configuration is read once at process start and treated as immutable.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Klerno-Labs/iso20022-engine/internal/assets"
	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// Config is the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Compliance ComplianceConfig `mapstructure:"compliance"`
	Assets     []assets.Asset   `mapstructure:"assets"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig contains the zap logger settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ComplianceConfig contains the compliance manager settings.
type ComplianceConfig struct {
	MessageTypes []string `mapstructure:"message_types"`
	HistorySize  int      `mapstructure:"history_size"`
}

// EnabledMessageTypes resolves the configured family names to MessageType
// values.
func (c ComplianceConfig) EnabledMessageTypes() []iso20022.MessageType {
	out := make([]iso20022.MessageType, 0, len(c.MessageTypes))
	for _, s := range c.MessageTypes {
		out = append(out, iso20022.MessageType(s))
	}
	return out
}

// Load reads the configuration from iso20022-engine.yaml (working directory
// or /etc/iso20022-engine) with ISO20022_-prefixed environment overrides.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("iso20022-engine")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/iso20022-engine")
	v.SetEnvPrefix("ISO20022")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Assets) == 0 {
		cfg.Assets = assets.DefaultAssets()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("compliance.history_size", 256)
	v.SetDefault("compliance.message_types", []string{
		string(iso20022.PaymentInitiation),
		string(iso20022.PaymentStatusReport),
		string(iso20022.AccountStatement),
		string(iso20022.Notification),
	})
}

// Validate checks the configuration for values the engine cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}
	if len(c.Compliance.MessageTypes) == 0 {
		return fmt.Errorf("config: no message types enabled")
	}
	for _, s := range c.Compliance.MessageTypes {
		if !iso20022.MessageType(s).Supported() {
			return fmt.Errorf("config: unsupported message type %q", s)
		}
	}
	if c.Compliance.HistorySize <= 0 {
		return fmt.Errorf("config: history size must be positive")
	}
	return nil
}
