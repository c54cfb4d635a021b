// Package config loads CLI configuration.
//
// Precedence, lowest to highest: built-in defaults, an optional YAML config
// file (./duostore.yaml or ~/.duostore/duostore.yaml), then DUOSTORE_*
// environment variables. Environment is read exactly once here; everything
// below the CLI receives plain values.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/duotier/duostore/pkg/backend"
	"github.com/duotier/duostore/pkg/credvend"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Backend selects the container backend kind.
	Backend string `mapstructure:"backend"`

	// PublicPrefix is the reserved public path prefix.
	PublicPrefix string `mapstructure:"public_prefix"`

	// PageRateLimit caps listing page fetches per second. Zero disables.
	PageRateLimit float64 `mapstructure:"page_rate_limit"`

	// Logging configures the CLI logger.
	Logging LoggingConfig `mapstructure:"logging"`

	// Account holds direct account credentials.
	Account AccountConfig `mapstructure:"account"`

	// Delegated holds pre-vended container URLs.
	Delegated DelegatedConfig `mapstructure:"delegated"`

	// Vendor configures the credential vending exchange.
	Vendor VendorConfig `mapstructure:"vendor"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// AccountConfig holds direct account credential input.
type AccountConfig struct {
	Account         string `mapstructure:"account"`
	AccessKey       string `mapstructure:"access_key"`
	ContainerPrefix string `mapstructure:"container_prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
}

// DelegatedConfig holds pre-vended container URLs.
type DelegatedConfig struct {
	PrivateURL string `mapstructure:"private_url"`
	PublicURL  string `mapstructure:"public_url"`
}

// VendorConfig configures the credential vending exchange.
type VendorConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from defaults, config file, and environment.
func Load(ctx context.Context) (*Config, error) {
	_ = ctx

	v := viper.New()

	v.SetDefault("backend", string(backend.KindS3))
	v.SetDefault("public_prefix", "public/")
	v.SetDefault("page_rate_limit", 0.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("vendor.timeout", credvend.DefaultTimeout)

	// Register every key so AutomaticEnv can see env-only values.
	for _, key := range []string{
		"account.account",
		"account.access_key",
		"account.container_prefix",
		"account.endpoint",
		"account.region",
		"delegated.private_url",
		"delegated.public_url",
		"vendor.url",
		"vendor.token",
	} {
		v.SetDefault(key, "")
	}

	v.SetConfigName("duostore")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.duostore")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("DUOSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// ResolveCredentials turns the configured credential input into
// backend-ready credentials.
//
// Preference order: an explicit vendor token triggers a vending exchange,
// pre-vended delegated URLs are used as-is, and account fields are the
// fallback. Exactly one source must be usable; the underlying validation
// reports conflicts.
func (c *Config) ResolveCredentials(ctx context.Context) (backend.Credentials, error) {
	if c.Vendor.Token != "" {
		client, err := credvend.New(credvend.Config{BaseURL: c.Vendor.URL, Timeout: c.Vendor.Timeout})
		if err != nil {
			return backend.Credentials{}, err
		}
		return client.Resolve(ctx, c.Vendor.Token)
	}

	if c.Delegated.PrivateURL != "" || c.Delegated.PublicURL != "" {
		creds := backend.Credentials{
			Delegated: &backend.DelegatedCredentials{
				PrivateURL: c.Delegated.PrivateURL,
				PublicURL:  c.Delegated.PublicURL,
			},
		}
		if err := creds.Validate(); err != nil {
			return backend.Credentials{}, err
		}
		return creds, nil
	}

	return credvend.Account(
		c.Account.Account,
		c.Account.AccessKey,
		c.Account.ContainerPrefix,
		c.Account.Endpoint,
		c.Account.Region,
	)
}
