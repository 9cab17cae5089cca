package config

import (
	"fmt"
	"strings"
	"time"
)

// NATSConfig describes the broker connection and the stream events are published to.
// When Enabled is false the services fall back to logging events instead of publishing them.
type NATSConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Url      string        `koanf:"url"`
	Timeout  time.Duration `koanf:"timeout"`
	Stream   string        `koanf:"stream"`
	Subjects []string      `koanf:"subjects"`
}

// String returns a string representation of the NATS configuration.
func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  url: %s\n", c.Url))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	b.WriteString(fmt.Sprintf("  subjects: %s\n", strings.Join(c.Subjects, ",")))
	return b.String()
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nats dial timeout is not configured")
	}
	if c.Stream != "" && len(c.Subjects) == 0 {
		return fmt.Errorf("nats stream %s has no subjects", c.Stream)
	}
	return nil
}
