// Package viper loads agrocostos configuration from defaults, an optional
// config file, and AGROCOSTOS_* environment variables.
package viper

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/agrocostos"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "AGROCOSTOS"

// Config holds every tunable of the scraper and its HTTP surface.
type Config struct {
	Origin      string `mapstructure:"origin"`
	CatalogPath string `mapstructure:"catalog_path"`
	ListingPath string `mapstructure:"listing_path"`
	UserAgent   string `mapstructure:"user_agent"`

	// Browser timings.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	ReadinessTimeout  time.Duration `mapstructure:"readiness_timeout"`
	SettleDelay       time.Duration `mapstructure:"settle_delay"`
	RenderDelay       time.Duration `mapstructure:"render_delay"`
	BrowserBin        string        `mapstructure:"browser_bin"`
	MaxContexts       int           `mapstructure:"max_contexts"`

	// Static client.
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	AllowList       []string             `mapstructure:"allow_list"`
	FallbackSeasons []*agrocostos.Season `mapstructure:"fallback_seasons"`

	PublicMaxPages   int `mapstructure:"public_max_pages"`
	InternalMaxPages int `mapstructure:"internal_max_pages"`

	ListenAddr     string        `mapstructure:"listen_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Origin:            agrocostos.DefaultOrigin,
		CatalogPath:       agrocostos.DefaultCatalogPath,
		ListingPath:       agrocostos.DefaultListingPath,
		UserAgent:         agrocostos.DefaultUserAgent,
		NavigationTimeout: 30 * time.Second,
		ReadinessTimeout:  5 * time.Second,
		SettleDelay:       time.Second,
		RenderDelay:       1500 * time.Millisecond,
		MaxContexts:       50,
		HTTPTimeout:       30 * time.Second,
		RequestsPerSecond: 1,
		AllowList:         agrocostos.DefaultAllowList(),
		FallbackSeasons:   agrocostos.DefaultSeasons(),
		PublicMaxPages:    agrocostos.PublicMaxPages,
		InternalMaxPages:  agrocostos.DefaultMaxPages,
		ListenAddr:        ":3000",
		RequestTimeout:    10 * time.Minute,
	}
}

// Load builds a Config. Values come, in increasing precedence, from the
// defaults, the file at path (skipped when path is empty), and the
// environment. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.FallbackSeasons) == 0 {
		cfg.FallbackSeasons = agrocostos.DefaultSeasons()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Fallback seasons are structured and only come from a config file, so
// they get no default key here; Load fills them in after decoding.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("origin", c.Origin)
	v.SetDefault("catalog_path", c.CatalogPath)
	v.SetDefault("listing_path", c.ListingPath)
	v.SetDefault("user_agent", c.UserAgent)
	v.SetDefault("navigation_timeout", c.NavigationTimeout)
	v.SetDefault("readiness_timeout", c.ReadinessTimeout)
	v.SetDefault("settle_delay", c.SettleDelay)
	v.SetDefault("render_delay", c.RenderDelay)
	v.SetDefault("browser_bin", c.BrowserBin)
	v.SetDefault("max_contexts", c.MaxContexts)
	v.SetDefault("http_timeout", c.HTTPTimeout)
	v.SetDefault("requests_per_second", c.RequestsPerSecond)
	v.SetDefault("allow_list", c.AllowList)
	v.SetDefault("public_max_pages", c.PublicMaxPages)
	v.SetDefault("internal_max_pages", c.InternalMaxPages)
	v.SetDefault("listen_addr", c.ListenAddr)
	v.SetDefault("request_timeout", c.RequestTimeout)
}

// Validate returns a ValidationError naming every invalid field.
func (c *Config) Validate() error {
	var bad []string

	if u, err := url.Parse(c.Origin); err != nil || u.Scheme == "" || u.Host == "" {
		bad = append(bad, "origin")
	}
	if !strings.HasPrefix(c.CatalogPath, "/") {
		bad = append(bad, "catalog_path")
	}
	if !strings.HasPrefix(c.ListingPath, "/") {
		bad = append(bad, "listing_path")
	}

	positive := []struct {
		name string
		d    time.Duration
	}{
		{"navigation_timeout", c.NavigationTimeout},
		{"readiness_timeout", c.ReadinessTimeout},
		{"http_timeout", c.HTTPTimeout},
		{"request_timeout", c.RequestTimeout},
	}
	for _, p := range positive {
		if p.d <= 0 {
			bad = append(bad, p.name)
		}
	}
	if c.SettleDelay < 0 {
		bad = append(bad, "settle_delay")
	}
	if c.RenderDelay < 0 {
		bad = append(bad, "render_delay")
	}

	if c.MaxContexts <= 0 {
		bad = append(bad, "max_contexts")
	}
	if c.RequestsPerSecond <= 0 {
		bad = append(bad, "requests_per_second")
	}
	if c.PublicMaxPages <= 0 {
		bad = append(bad, "public_max_pages")
	}
	if c.InternalMaxPages <= 0 {
		bad = append(bad, "internal_max_pages")
	}
	if len(c.AllowList) == 0 {
		bad = append(bad, "allow_list")
	}
	if c.ListenAddr == "" {
		bad = append(bad, "listen_addr")
	}
	for _, s := range c.FallbackSeasons {
		if s == nil || !s.Usable() {
			bad = append(bad, "fallback_seasons")
			break
		}
	}

	if len(bad) > 0 {
		return &agrocostos.ValidationError{Fields: bad, Reason: "invalid configuration"}
	}
	return nil
}
