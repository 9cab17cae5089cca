package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port    int           `koanf:"port"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"server"`
	Cart struct {
		MaxQuantity int `koanf:"maxQuantity"`
	} `koanf:"cart"`
	Name string `koanf:"name"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_Load_Precedence(t *testing.T) {
	// given
	dir := t.TempDir()
	yamlFile := writeFile(t, dir, "config.yaml", "server:\n  port: 8080\n  timeout: 5s\ncart:\n  maxQuantity: 10\nname: from-yaml\n")
	envFile := writeFile(t, dir, ".env", "SHOP_NAME=from-dotenv\nOTHER_NAME=ignored\n")
	t.Setenv("SHOP_SERVER_PORT", "9090")

	// when
	cfg, err := Load[*testConfig]("shop", WithConfigFile(yamlFile), WithEnvFile(envFile))

	// then
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port, "system env overrides yaml")
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 10, cfg.Cart.MaxQuantity)
	assert.Equal(t, "from-dotenv", cfg.Name, ".env overrides yaml")
}

func Test_Load_MissingFilesAreIgnored(t *testing.T) {
	// given
	dir := t.TempDir()
	t.Setenv("SHOP_SERVER_PORT", "7000")
	t.Setenv("SHOP_CART_MAXQUANTITY", "3")

	// when
	cfg, err := Load[*testConfig]("shop",
		WithConfigFile(filepath.Join(dir, "absent.yaml")),
		WithEnvFile(filepath.Join(dir, "absent.env")))

	// then
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Cart.MaxQuantity)
}

func Test_Load_ValidationError(t *testing.T) {
	// given
	dir := t.TempDir()
	yamlFile := writeFile(t, dir, "config.yaml", "name: no-port\n")

	// when
	_, err := Load[*testConfig]("shop", WithConfigFile(yamlFile), WithEnvFile(filepath.Join(dir, "absent.env")))

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.Contains(t, err.Error(), "port is required")
}

func Test_newEnvTransformer(t *testing.T) {
	transform := newEnvTransformer("STOREFRONT_")

	tests := []struct {
		in   string
		want string
	}{
		{in: "STOREFRONT_SERVER_PORT", want: "server.port"},
		{in: "STOREFRONT_PRICING_TAXRATE", want: "pricing.taxrate"},
		{in: "STOREFRONT_LOG_LEVEL", want: "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, transform(tt.in))
		})
	}
}
