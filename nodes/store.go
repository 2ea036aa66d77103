package nodes

import (
	"fmt"

	"simple-ledger-go/config"
	"simple-ledger-go/database"
	"simple-ledger-go/logging"
)

// OpenStore builds the chain store named by cfg.Store.
func OpenStore(cfg config.Local, log logging.Logger) (database.ChainStore, error) {
	switch cfg.Store {
	case config.STORE_MEMORY, "":
		return database.NewMemoryStore(), nil
	case config.STORE_BOLT:
		store, err := database.OpenBolt(cfg.StorePath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
