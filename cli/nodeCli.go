package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"simple-ledger-go/api"
	"simple-ledger-go/config"
	"simple-ledger-go/database"
	"simple-ledger-go/logging"
	"simple-ledger-go/nodes"
	"simple-ledger-go/p2p"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

type nodeOptions struct {
	configPath      string
	port            string
	peers           []string
	difficulty      int
	hash            string
	store           string
	storePath       string
	logLevel        string
	mineInterval    time.Duration
	resolveInterval time.Duration
}

func newNodeCmd() *cobra.Command {
	opts := &nodeOptions{}
	return opts.command()
}

func (opts *nodeOptions) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Run a ledger node serving the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			return runNode(cfg, setupLogger(cfg))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "JSON config file")
	flags.StringVarP(&opts.port, "port", "p", p2p.DEFAULT_PORT, "port number to use")
	flags.StringArrayVar(&opts.peers, "peer", nil, "peer to register at start (repeatable)")
	flags.IntVar(&opts.difficulty, "difficulty", 0, "leading zero hex digits a proof needs")
	flags.StringVar(&opts.hash, "hash", "", "block and proof hash (sha256|sha3-256)")
	flags.StringVar(&opts.store, "store", "", "chain store (memory|bolt)")
	flags.StringVar(&opts.storePath, "store-path", "", "bolt file, wiped on start")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error")
	flags.DurationVar(&opts.mineInterval, "mine-interval", 0, "mine pending transactions this often, 0 disables")
	flags.DurationVar(&opts.resolveInterval, "resolve-interval", 0, "resolve against peers this often, 0 disables")
	return cmd
}

// config layers the flags the user set over the config file, itself
// layered over the defaults.
func (opts *nodeOptions) config(cmd *cobra.Command) (config.Local, error) {
	cfg := config.Defaults()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Address = ":" + opts.port
	}
	if flags.Changed("peer") {
		cfg.Peers = append(cfg.Peers, opts.peers...)
	}
	if flags.Changed("difficulty") {
		cfg.Difficulty = opts.difficulty
	}
	if flags.Changed("hash") {
		cfg.Hash = opts.hash
	}
	if flags.Changed("store") {
		cfg.Store = opts.store
	}
	if flags.Changed("store-path") {
		cfg.StorePath = opts.storePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("mine-interval") {
		cfg.MiningInterval = config.Duration{Duration: opts.mineInterval}
	}
	if flags.Changed("resolve-interval") {
		cfg.ResolveInterval = config.Duration{Duration: opts.resolveInterval}
	}
	_, port, err := net.SplitHostPort(cfg.Address)
	if err != nil {
		return cfg, fmt.Errorf("address %q: %w", cfg.Address, err)
	}
	if cfg.Store == config.STORE_BOLT && cfg.StorePath == "" {
		cfg.StorePath = database.DatabaseFileName(port)
	}
	return cfg, cfg.Validate()
}

func setupLogger(cfg config.Local) logging.Logger {
	log := logging.Base()
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err == nil {
		log.SetLevel(level)
	}
	if cfg.LogJSON {
		log.SetJSONFormatter()
	}
	return log
}

func runNode(cfg config.Local, log logging.Logger) error {
	store, err := nodes.OpenStore(cfg, log)
	if err != nil {
		return err
	}
	node, err := nodes.NewNode(cfg, store, nil, nil, log)
	if err != nil {
		store.Close()
		return err
	}
	server := api.NewServer(node, cfg.Address, cfg.Metrics, log)
	if _, port, err := net.SplitHostPort(cfg.Address); err == nil {
		log.Infof("peers register this node as http://%s", p2p.LocalAddress(port))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	node.Start(ctx)

	served := make(chan error, 1)
	go func() {
		served <- server.Start()
	}()

	select {
	case err = <-served:
	case <-ctx.Done():
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		err = server.Shutdown(shutdownCtx)
	}
	return errors.Join(err, node.Stop())
}
