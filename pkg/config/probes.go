package config

import (
	"fmt"
	"strings"
	"time"
)

// ProbesConfig configures file based readiness and liveness probes for processes without an HTTP port.
type ProbesConfig struct {
	Enabled           bool          `koanf:"enabled"`
	ReadinessFileName string        `koanf:"readinessfilename"`
	LivenessFileName  string        `koanf:"livenessfilename"`
	LivenessInterval  time.Duration `koanf:"livenessinterval"`
}

const defaultReadinessFileName = "/tmp/ready"
const defaultLivenessFileName = "/tmp/live"
const defaultLivenessInterval = 20 * time.Second

// String returns a string representation of the ProbesConfig.
func (c *ProbesConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Probes ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  readinessfilename: %s\n", c.ReadinessFileName))
	b.WriteString(fmt.Sprintf("  livenessfilename: %s\n", c.LivenessFileName))
	b.WriteString(fmt.Sprintf("  livenessinterval: %s\n", c.LivenessInterval))
	return b.String()
}

// Validate fills the defaults for unset file names and interval.
func (c *ProbesConfig) Validate() error {
	if c.ReadinessFileName == "" {
		c.ReadinessFileName = defaultReadinessFileName
	}
	if c.LivenessFileName == "" {
		c.LivenessFileName = defaultLivenessFileName
	}
	if c.LivenessInterval < 0 {
		return fmt.Errorf("probes.livenessinterval must not be negative")
	}
	if c.LivenessInterval == 0 {
		c.LivenessInterval = defaultLivenessInterval
	}
	return nil
}
