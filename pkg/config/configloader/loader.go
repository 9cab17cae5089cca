// Package configloader loads service configuration from a yaml file, a .env file and the environment.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Validator interface {
	Validate() error
}

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type options struct {
	configFile string
	envFile    string
}

// Option overrides a loader default.
type Option func(*options)

// WithConfigFile reads the yaml configuration from path instead of config.yaml.
func WithConfigFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.configFile = path
		}
	}
}

// WithEnvFile reads dotenv variables from path instead of .env.
func WithEnvFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.envFile = path
		}
	}
}

// Load builds T from, in increasing priority: the yaml file, the .env file and
// system environment variables prefixed with the upper-cased service name
// (STOREFRONT_SERVER_PORT becomes server.port). Missing files are not an error.
func Load[T Validator](serviceName string, opts ...Option) (T, error) {
	var cfg T
	o := options{configFile: defaultConfigFile, envFile: defaultEnvFile}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))

	// 1. yaml file
	if err := k.Load(file.Provider(o.configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", o.configFile, err)
		}
	}

	// 2. .env file
	envTransformer := newEnvTransformer(envPrefix)
	if envFileMap, err := godotenv.Read(o.envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. system environment, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// newEnvTransformer maps STOREFRONT_CART_MAXQUANTITY to cart.maxquantity.
func newEnvTransformer(envPrefix string) func(string) string {
	lowerPrefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
