// Package nodes is the boundary of one ledger node: the operations the
// HTTP layer and the background routines call.
package nodes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/algorand/go-deadlock"

	"simple-ledger-go/blockchain"
	"simple-ledger-go/blocks"
	"simple-ledger-go/config"
	"simple-ledger-go/consensus"
	"simple-ledger-go/database"
	"simple-ledger-go/epoch"
	"simple-ledger-go/hashes"
	"simple-ledger-go/logging"
	"simple-ledger-go/metrics"
	"simple-ledger-go/p2p"
	"simple-ledger-go/pow"
	"simple-ledger-go/transactions"
)

var ErrNoPeersSupplied = errors.New("please supply a valid list of nodes")

type Node struct {
	mining deadlock.Mutex

	id       string
	ledger   *blockchain.Blockchain
	pow      *pow.ProofOfWork
	resolver *consensus.Resolver
	metrics  *metrics.Metrics
	log      logging.Logger

	miningInterval  time.Duration
	resolveInterval time.Duration
	cancel          context.CancelFunc
	routines        sync.WaitGroup
}

// NewNode builds a node over store. A nil fetcher downloads peer chains
// over HTTP with cfg.PeerTimeout; a nil m gets a fresh registry.
func NewNode(
	cfg config.Local,
	store database.ChainStore,
	fetcher p2p.ChainFetcher,
	m *metrics.Metrics,
	log logging.Logger,
) (*Node, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	hasher, err := hashes.ByName(cfg.Hash)
	if err != nil {
		return nil, err
	}
	if fetcher == nil {
		fetcher = p2p.NewHTTPClient(cfg.PeerTimeout.Duration)
	}
	if m == nil {
		m = metrics.New()
	}

	id := cfg.NodeID
	if id == "" {
		id = NewIdentity()
	}
	log = log.With("node", id)

	ledger, err := blockchain.NewBlockchain(store, hasher, log)
	if err != nil {
		return nil, err
	}
	n := &Node{
		id:     id,
		ledger: ledger,
		pow: pow.NewProofOfWork(hasher, cfg.Difficulty).
			WithWorkers(cfg.MiningWorkers).
			WithLogger(log),
		resolver: consensus.NewResolver(ledger, p2p.NewKnownNodes(), fetcher, m, log).
			WithConcurrency(cfg.FetchConcurrency),
		metrics:         m,
		log:             log,
		miningInterval:  cfg.MiningInterval.Duration,
		resolveInterval: cfg.ResolveInterval.Duration,
	}

	if len(cfg.Peers) > 0 {
		_, err = n.RegisterPeers(cfg.Peers)
		if err != nil {
			return nil, err
		}
	}
	height, err := ledger.Len()
	if err != nil {
		return nil, err
	}
	m.ChainLength.Set(float64(height))
	return n, nil
}

func (n *Node) ID() string {
	return n.id
}

func (n *Node) Metrics() *metrics.Metrics {
	return n.metrics
}

func (n *Node) GetChain() (*p2p.ChainMsg, error) {
	chain, err := n.ledger.Chain()
	if err != nil {
		return nil, err
	}
	return &p2p.ChainMsg{
		Chain:  chain,
		Length: uint64(len(chain)),
	}, nil
}

// SubmitTransaction queues the requested transaction and returns the index
// of the block it will land in.
func (n *Node) SubmitTransaction(req transactions.Request) (uint64, error) {
	tx, err := req.Transaction()
	if err != nil {
		return 0, err
	}
	index, err := n.ledger.AppendTransaction(tx)
	if err != nil {
		return 0, err
	}
	n.metrics.PendingTransactions.Inc()
	n.log.Debugf("transaction %s -> %s queued for block %d", tx.Sender, tx.Recipient, index)
	return index, nil
}

// Mine searches a proof for the current last block, credits this node with
// the reward and forges the next block. The search starts over when the
// chain moves underneath it.
func (n *Node) Mine(ctx context.Context) (*blocks.Block, error) {
	n.mining.Lock()
	defer n.mining.Unlock()

	for {
		last, err := n.ledger.LastBlock()
		if err != nil {
			return nil, err
		}
		previousHash := n.ledger.Hash(last)

		n.log.Infof("mining a new block on top of %d", last.Index)
		start := time.Now()
		proof, err := n.pow.SearchContext(ctx, last.Proof)
		n.metrics.MiningSeconds.Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		n.log.Infof("mined hash %s", n.pow.Guess(last.Proof, proof))

		block, err := n.ledger.CommitMined(proof, previousHash, transactions.NewReward(n.id))
		if errors.Is(err, blockchain.ErrStaleTip) {
			n.log.Warn("chain moved while mining, searching again")
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, tx := range block.Transactions {
			if tx.IsReward() {
				n.log.Infof("reward of %v credited to %s", tx.Amount, tx.Recipient)
			}
		}
		n.metrics.BlocksForged.Inc()
		n.metrics.ChainLength.Set(float64(block.Index))
		n.metrics.PendingTransactions.Set(float64(len(n.ledger.Pending())))
		return block, nil
	}
}

// RegisterPeers adds every address to the peer set and returns the whole
// set. Addresses before a bad one stay registered.
func (n *Node) RegisterPeers(addresses []string) ([]string, error) {
	if len(addresses) == 0 {
		return nil, ErrNoPeersSupplied
	}
	for _, address := range addresses {
		_, err := n.resolver.Register(address)
		if err != nil {
			return nil, err
		}
	}
	return n.resolver.Peers(), nil
}

// ResolveConsensus runs one consensus round and returns the local chain as
// it stands afterwards.
func (n *Node) ResolveConsensus(ctx context.Context) (bool, []blocks.Block, error) {
	replaced, err := n.resolver.Resolve(ctx)
	if err != nil {
		return false, nil, err
	}
	chain, err := n.ledger.Chain()
	if err != nil {
		return false, nil, err
	}
	return replaced, chain, nil
}

// Start launches the autominer and the periodic resolver when their
// intervals are set. Both stop with ctx or Stop.
func (n *Node) Start(ctx context.Context) {
	ctx, n.cancel = context.WithCancel(ctx)
	if n.miningInterval > 0 {
		n.run(ctx, epoch.NewEpoch(func() { n.autoMine(ctx) }, n.miningInterval))
		n.log.Infof("autominer every %s", n.miningInterval)
	}
	if n.resolveInterval > 0 {
		n.run(ctx, epoch.NewEpoch(func() { n.autoResolve(ctx) }, n.resolveInterval))
		n.log.Infof("auto resolve every %s", n.resolveInterval)
	}
}

func (n *Node) run(ctx context.Context, e *epoch.Epoch) {
	n.routines.Add(1)
	go func() {
		defer n.routines.Done()
		e.StartEpochRoutine(ctx)
	}()
}

// autoMine only forges when transactions are waiting.
func (n *Node) autoMine(ctx context.Context) {
	if len(n.ledger.Pending()) == 0 {
		return
	}
	_, err := n.Mine(ctx)
	if err != nil && ctx.Err() == nil {
		n.log.Errorf("autominer: %v", err)
	}
}

func (n *Node) autoResolve(ctx context.Context) {
	_, err := n.resolver.Resolve(ctx)
	if err != nil && ctx.Err() == nil {
		n.log.Errorf("auto resolve: %v", err)
	}
}

// Stop ends the background routines and closes the store.
func (n *Node) Stop() error {
	if n.cancel != nil {
		n.cancel()
		n.routines.Wait()
	}
	err := n.ledger.Close()
	if err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
