package config

import (
	"fmt"
	"net"
	"strings"
)

const defaultPProfAddr = "localhost:6060"

// PProfConfig controls the net/http/pprof listener. It binds to loopback unless told otherwise.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	fmt.Fprintf(&b, "  enabled: %t\n", c.Enabled)
	fmt.Fprintf(&b, "  addr: %s\n", c.Addr)
	return b.String()
}

// Validate fills in the loopback address when pprof is enabled without one.
func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		c.Addr = defaultPProfAddr
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("pprof.addr %q: %w", c.Addr, err)
	}
	return nil
}
