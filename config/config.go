package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"simple-ledger-go/common"
	"simple-ledger-go/hashes"
	"simple-ledger-go/logging"
	"simple-ledger-go/pow"
)

const (
	STORE_MEMORY = "memory"
	STORE_BOLT   = "bolt"
)

// Duration reads "5s" style strings from the config file.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Local holds the settings of one node.
type Local struct {
	Address          string   `json:"address"`
	NodeID           string   `json:"node_id"`
	Difficulty       int      `json:"difficulty"`
	Hash             string   `json:"hash"`
	MiningWorkers    int      `json:"mining_workers"`
	MiningInterval   Duration `json:"mining_interval"`
	ResolveInterval  Duration `json:"resolve_interval"`
	Peers            []string `json:"peers"`
	PeerTimeout      Duration `json:"peer_timeout"`
	FetchConcurrency int      `json:"fetch_concurrency"`
	Store            string   `json:"store"`
	StorePath        string   `json:"store_path"`
	LogLevel         string   `json:"log_level"`
	LogJSON          bool     `json:"log_json"`
	Metrics          bool     `json:"metrics"`
}

func Defaults() Local {
	return Local{
		Address:          ":5000",
		Difficulty:       pow.DEFAULT_DIFFICULTY,
		Hash:             hashes.SHA256,
		MiningWorkers:    1,
		Peers:            []string{},
		PeerTimeout:      Duration{5 * time.Second},
		FetchConcurrency: 8,
		Store:            STORE_MEMORY,
		LogLevel:         "info",
		Metrics:          true,
	}
}

// LoadFile reads path over the defaults; fields absent from the file keep
// their default value.
func LoadFile(path string) (Local, error) {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = common.DecodeOver(raw, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Local) Validate() error {
	if c.Difficulty < 1 || c.Difficulty > pow.MAX_DIFFICULTY {
		return fmt.Errorf("difficulty %d is outside 1..%d", c.Difficulty, pow.MAX_DIFFICULTY)
	}
	if _, err := hashes.ByName(c.Hash); err != nil {
		return err
	}
	if c.MiningWorkers < 1 {
		return fmt.Errorf("mining_workers must be at least 1, got %d", c.MiningWorkers)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("fetch_concurrency must be at least 1, got %d", c.FetchConcurrency)
	}
	switch c.Store {
	case STORE_MEMORY:
	case STORE_BOLT:
		if c.StorePath == "" {
			return fmt.Errorf("store %q needs store_path", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
