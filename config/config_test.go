package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "iprange.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
	require.Equal(t, DefaultDNSTimeout, cfg.DNS.Timeout)
	require.Equal(t, DefaultMaxLookups, cfg.DNS.MaxLookups)
	require.Empty(t, cfg.Routes.Gateway)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
logLevel: debug
dns:
  server: 127.0.0.1:5353
  timeout: 2s
routes:
  gateway: 192.168.1.1
  linkIndex: 3
  metric: 50
  netns: /var/run/netns/blue
metricsFile: /var/lib/node_exporter/iprange.prom
sets:
  office:
    - 10.1.0.0/16
    - 10.3.0.0-10.3.0.255
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, DNS{Server: "127.0.0.1:5353", Timeout: 2 * time.Second, MaxLookups: DefaultMaxLookups}, cfg.DNS)
	require.Equal(t, Routes{Gateway: "192.168.1.1", LinkIndex: 3, Metric: 50, NetNS: "/var/run/netns/blue"}, cfg.Routes)
	require.Equal(t, "/var/lib/node_exporter/iprange.prom", cfg.MetricsFile)

	reg := cfg.Registry()
	office, err := reg.Lookup("office")
	require.NoError(t, err)
	require.Equal(t, "[10.1.0.0-10.1.255.255 10.3.0.0-10.3.0.255]", office.String())
	require.True(t, reg.Has("bogon"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config file")

	_, err = Load(writeConfig(t, "dns: [not, a, map]"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config file")
}
