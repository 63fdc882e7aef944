// Package config loads the YAML configuration of the iprange tool.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/iamainow/routes/parse"
	"github.com/iamainow/routes/wellknown"
)

const (
	DefaultLogLevel   = "info"
	DefaultDNSTimeout = 5 * time.Second
	DefaultMaxLookups = 10 // RFC 7208 lookup limit
)

type DNS struct {
	// Server is host:port; empty means the first server of /etc/resolv.conf.
	Server     string        `yaml:"server"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxLookups int           `yaml:"maxLookups"`
}

// Routes selects the routes managed by "routes sync".
type Routes struct {
	Gateway   string `yaml:"gateway"`
	LinkIndex int    `yaml:"linkIndex"`
	Metric    int    `yaml:"metric"`
	NetNS     string `yaml:"netns"`
}

type Config struct {
	LogLevel    string `yaml:"logLevel"`
	DNS         DNS    `yaml:"dns"`
	Routes      Routes `yaml:"routes"`
	MetricsFile string `yaml:"metricsFile"`
	// Sets are user-defined address lists, usable by name like the
	// built-in ones. Entries are ranges, CIDRs or addresses.
	Sets map[string][]string `yaml:"sets"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path; an empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.DNS.Timeout == 0 {
		cfg.DNS.Timeout = DefaultDNSTimeout
	}
	if cfg.DNS.MaxLookups == 0 {
		cfg.DNS.MaxLookups = DefaultMaxLookups
	}
}

// Registry returns the built-in address lists extended with cfg.Sets.
func (cfg *Config) Registry() *wellknown.Registry {
	reg := wellknown.NewRegistry()
	for name, entries := range cfg.Sets {
		reg.Define(name, parse.Parse(strings.Join(entries, "\n")))
	}
	return reg
}
