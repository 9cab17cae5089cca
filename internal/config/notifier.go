package config

import (
	"strings"

	"github.com/abgdnv/mangahaven/pkg/config"
	"github.com/abgdnv/mangahaven/pkg/config/configloader"
)

var _ configloader.Validator = (*NotifierConfig)(nil)

// NotifierConfig is the configuration of the order confirmation notifier.
type NotifierConfig struct {
	Log        config.LogConfig        `koanf:"log"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Subscriber config.SubscriberConfig `koanf:"subscriber"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Probes     config.ProbesConfig     `koanf:"probes"`
}

func (c *NotifierConfig) String() string {
	var b strings.Builder
	b.WriteString(c.Log.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Subscriber.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Probes.String())
	return b.String()
}

// Validate checks the notifier settings. The notifier cannot run without a broker, so NATS is always enabled.
func (c *NotifierConfig) Validate() error {
	c.Nats.Enabled = true
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Subscriber.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	return c.Probes.Validate()
}
