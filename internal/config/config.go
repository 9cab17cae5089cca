// Package config holds the configuration of the storefront and notifier processes.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/mangahaven/internal/cart"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/abgdnv/mangahaven/pkg/config"
	"github.com/abgdnv/mangahaven/pkg/config/configloader"
	"github.com/shopspring/decimal"
)

var _ configloader.Validator = (*Config)(nil)

// Config is the storefront configuration.
type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Catalog    CatalogConfig           `koanf:"catalog"`
	Cart       CartConfig              `koanf:"cart"`
	Pricing    PricingConfig           `koanf:"pricing"`
}

// CatalogConfig points at a yaml catalog. An empty File serves the built-in catalog.
type CatalogConfig struct {
	File string `koanf:"file"`
}

// CartConfig caps the quantity of a single cart line. An unset MaxQuantity means
// cart.DefaultMaxQuantity; an explicit 0 leaves lines unbounded.
type CartConfig struct {
	MaxQuantity *int `koanf:"maxquantity"`
}

// Limit is the effective per-line cap.
func (c CartConfig) Limit() int {
	if c.MaxQuantity == nil {
		return cart.DefaultMaxQuantity
	}
	return *c.MaxQuantity
}

// PricingConfig keeps amounts as decimal strings so they never pass through a float.
type PricingConfig struct {
	TaxRate               string `koanf:"taxrate"`
	FreeShippingThreshold string `koanf:"freeshippingthreshold"`
	ShippingFee           string `koanf:"shippingfee"`

	rules  pricing.Rules
	parsed bool
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Shutdown.String())

	b.WriteString("\n--- Storefront ---\n")
	catalogFile := c.Catalog.File
	if catalogFile == "" {
		catalogFile = "<built-in>"
	}
	b.WriteString(fmt.Sprintf("  catalog.file: %s\n", catalogFile))
	b.WriteString(fmt.Sprintf("  cart.maxquantity: %d\n", c.Cart.Limit()))
	rules := c.Pricing.Rules()
	b.WriteString(fmt.Sprintf("  pricing.taxrate: %s\n", rules.TaxRate))
	b.WriteString(fmt.Sprintf("  pricing.freeshippingthreshold: %s\n", pricing.Format(rules.FreeShippingThreshold)))
	b.WriteString(fmt.Sprintf("  pricing.shippingfee: %s\n", pricing.Format(rules.ShippingFee)))
	return b.String()
}

// Validate checks if the configuration values are valid and fills the storefront defaults.
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if c.Nats.Enabled {
		if err := c.Resilience.CircuitBreaker.Validate(); err != nil {
			return err
		}
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.Cart.Validate(); err != nil {
		return err
	}
	return c.Pricing.Validate()
}

// Validate applies the default cap when none is set.
func (c *CartConfig) Validate() error {
	if c.MaxQuantity == nil {
		limit := cart.DefaultMaxQuantity
		c.MaxQuantity = &limit
	}
	if *c.MaxQuantity < 0 {
		return fmt.Errorf("cart.maxquantity must not be negative: %d", *c.MaxQuantity)
	}
	return nil
}

// Validate parses the amounts. Unset amounts keep their default.
func (c *PricingConfig) Validate() error {
	rules := pricing.DefaultRules()
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{name: "taxrate", raw: c.TaxRate, dst: &rules.TaxRate},
		{name: "freeshippingthreshold", raw: c.FreeShippingThreshold, dst: &rules.FreeShippingThreshold},
		{name: "shippingfee", raw: c.ShippingFee, dst: &rules.ShippingFee},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid pricing.%s %q: %w", f.name, f.raw, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("pricing.%s must not be negative: %s", f.name, raw)
		}
		*f.dst = d
	}
	if rules.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("pricing.taxrate must be a fraction, got %s", rules.TaxRate)
	}
	c.rules, c.parsed = rules, true
	return nil
}

// Rules returns the parsed pricing rules, or the defaults before Validate has run.
func (c *PricingConfig) Rules() pricing.Rules {
	if !c.parsed {
		return pricing.DefaultRules()
	}
	return c.rules
}
