package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 4, cfg.Difficulty)
	require.Equal(t, 5*time.Second, cfg.PeerTimeout.Duration)
	require.Equal(t, STORE_MEMORY, cfg.Store)
}

func TestLoadFileKeepsDefaultsForAbsentFields(t *testing.T) {
	path := writeConfig(t, `{
		"address": ":6000",
		"difficulty": 2,
		"mining_interval": "30s",
		"peers": ["http://localhost:5001"]
	}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, ":6000", cfg.Address)
	require.Equal(t, 2, cfg.Difficulty)
	require.Equal(t, 30*time.Second, cfg.MiningInterval.Duration)
	require.Equal(t, []string{"http://localhost:5001"}, cfg.Peers)
	require.Equal(t, "sha256", cfg.Hash)
	require.Equal(t, 8, cfg.FetchConcurrency)
	require.True(t, cfg.Metrics)
}

func TestLoadFileRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `{"peer_timeout": "soon"}`)
	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Local){
		"difficulty zero":   func(c *Local) { c.Difficulty = 0 },
		"difficulty high":   func(c *Local) { c.Difficulty = 65 },
		"unknown hash":      func(c *Local) { c.Hash = "md5" },
		"no workers":        func(c *Local) { c.MiningWorkers = 0 },
		"no concurrency":    func(c *Local) { c.FetchConcurrency = 0 },
		"unknown store":     func(c *Local) { c.Store = "redis" },
		"bolt without path": func(c *Local) { c.Store = STORE_BOLT },
		"bad log level":     func(c *Local) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestDurationMarshal(t *testing.T) {
	b, err := Duration{90 * time.Second}.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"1m30s"`, string(b))
}
