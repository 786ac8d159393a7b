package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete storefront configuration, loadable from
// environment variables (BONDX_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL string `default:"http://localhost:5000" usage:"Storefront backend base URL" flag:"api-base-url"`
	APIKey     string `usage:"Optional API key sent as the api_key header (BONDX_API_KEY)" flag:"api-key"`
	CartPath   string `usage:"Cart snapshot file (defaults under the user config dir)" flag:"cart-path"`
	// RequestTimeout bounds each backend call; 0 disables the bound, matching
	// the submission lifecycle which awaits resolution indefinitely.
	RequestTimeout time.Duration `default:"0s" usage:"HTTP request timeout (0 = none)" flag:"request-timeout"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files, then fills in platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "BONDX",
		Files:     []string{"config.yaml", userConfigFile()},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults places the cart snapshot under the user config dir when no
// explicit path is given, falling back to the working directory.
func (c *Config) applyDefaults() {
	if c.CartPath != "" {
		return
	}
	if dir, err := os.UserConfigDir(); err == nil {
		c.CartPath = filepath.Join(dir, "bondx", "cart.json")
		return
	}
	c.CartPath = "cart.json"
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bondx", "config.yaml")
}
