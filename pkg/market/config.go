package market

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"finsight-api/pkg/confkit"
)

// Config describes the market data providers available to the pipeline and
// which provider serves each role.
type Config struct {
	// Crypto names the provider used for crypto assets.
	Crypto string `yaml:"crypto"`
	// Equity names the primary equities provider.
	Equity string `yaml:"equity"`
	// EquitySecondary optionally names the secondary equities aggregates
	// provider tried first for non-domestic symbols.
	EquitySecondary string `yaml:"equity_secondary"`

	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents configuration for a single provider.
type ProviderConfig struct {
	Type string `yaml:"type"`

	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

// ProviderBuilder constructs a Provider from configuration.
type ProviderBuilder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	providerRegistry   = make(map[string]ProviderBuilder)
	providerRegistryMu sync.RWMutex
)

// RegisterProvider registers a market provider constructor. Provider packages
// call this from init so importing them for side effects is enough.
func RegisterProvider(typeName string, builder ProviderBuilder) {
	providerRegistryMu.Lock()
	defer providerRegistryMu.Unlock()
	providerRegistry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupProviderBuilder(typeName string) (ProviderBuilder, bool) {
	providerRegistryMu.RLock()
	defer providerRegistryMu.RUnlock()
	builder, ok := providerRegistry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// LoadConfig reads market configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// MustLoad reads market configuration from the default project location and panics on error.
func MustLoad() *Config {
	path := confkit.ProjectPath("etc/market.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read market config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal market config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.expandEnv()
		if err := provider.parseDurations(name); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProviderConfig) expandEnv() {
	p.Type = strings.TrimSpace(os.ExpandEnv(p.Type))
	p.BaseURL = strings.TrimSpace(os.ExpandEnv(p.BaseURL))
	p.APIKey = strings.TrimSpace(os.ExpandEnv(p.APIKey))
	p.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(p.TimeoutRaw))
}

func (p *ProviderConfig) parseDurations(name string) error {
	if p.TimeoutRaw == "" {
		return nil
	}
	d, err := time.ParseDuration(p.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("market provider %s: invalid timeout %q: %w", name, p.TimeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("market provider %s: timeout must be positive, got %s", name, d)
	}
	p.Timeout = d
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("market config: providers cannot be empty")
	}
	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("market config: provider name cannot be empty")
		}
		if err := provider.validate(name); err != nil {
			return err
		}
	}
	for role, name := range map[string]string{
		"crypto": c.Crypto,
		"equity": c.Equity,
	} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("market config: %s provider is required", role)
		}
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("market config: %s provider %q not defined", role, name)
		}
	}
	if c.EquitySecondary != "" {
		if _, ok := c.Providers[c.EquitySecondary]; !ok {
			return fmt.Errorf("market config: equity_secondary provider %q not defined", c.EquitySecondary)
		}
	}
	return nil
}

func (p *ProviderConfig) validate(name string) error {
	if p == nil {
		return fmt.Errorf("market config: provider %s is nil", name)
	}
	if strings.TrimSpace(p.Type) == "" {
		return fmt.Errorf("market config: provider %s must specify type", name)
	}
	if _, ok := lookupProviderBuilder(p.Type); !ok {
		return fmt.Errorf("market config: provider %s has unsupported type %q", name, p.Type)
	}
	return nil
}

// Providers built from configuration, resolved per role.
type ProviderSet struct {
	Crypto          CryptoProvider
	Equity          EquityProvider
	EquitySecondary EquityAggregatesProvider // nil when not configured
}

// BuildProviders instantiates the configured providers and resolves the
// crypto/equity/secondary roles with the expected interfaces.
func (c *Config) BuildProviders() (*ProviderSet, error) {
	built := make(map[string]Provider, len(c.Providers))
	for name, providerCfg := range c.Providers {
		builder, ok := lookupProviderBuilder(providerCfg.Type)
		if !ok {
			return nil, fmt.Errorf("market provider %s: unsupported type %q", name, providerCfg.Type)
		}
		provider, err := builder(name, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("market provider %s: %w", name, err)
		}
		built[name] = provider
	}

	set := &ProviderSet{}
	crypto, ok := built[c.Crypto].(CryptoProvider)
	if !ok {
		return nil, fmt.Errorf("market provider %s: does not serve crypto data", c.Crypto)
	}
	set.Crypto = crypto

	equity, ok := built[c.Equity].(EquityProvider)
	if !ok {
		return nil, fmt.Errorf("market provider %s: does not serve equity data", c.Equity)
	}
	set.Equity = equity

	if c.EquitySecondary != "" {
		secondary, ok := built[c.EquitySecondary].(EquityAggregatesProvider)
		if !ok {
			return nil, fmt.Errorf("market provider %s: does not serve equity aggregates", c.EquitySecondary)
		}
		set.EquitySecondary = secondary
	}
	return set, nil
}
