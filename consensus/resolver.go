// Package consensus reconciles the local chain with the chains of known
// peers under the longest valid chain rule.
package consensus

import (
	"context"

	"golang.org/x/sync/errgroup"

	"simple-ledger-go/blockchain"
	"simple-ledger-go/blocks"
	"simple-ledger-go/logging"
	"simple-ledger-go/metrics"
	"simple-ledger-go/p2p"
)

const DEFAULT_FETCH_CONCURRENCY = 8

type Resolver struct {
	ledger      *blockchain.Blockchain
	peers       *p2p.KnownNodes
	fetcher     p2p.ChainFetcher
	concurrency int
	metrics     *metrics.Metrics
	log         logging.Logger
}

func NewResolver(
	ledger *blockchain.Blockchain,
	peers *p2p.KnownNodes,
	fetcher p2p.ChainFetcher,
	m *metrics.Metrics,
	log logging.Logger,
) *Resolver {
	return &Resolver{
		ledger:      ledger,
		peers:       peers,
		fetcher:     fetcher,
		concurrency: DEFAULT_FETCH_CONCURRENCY,
		metrics:     m,
		log:         log,
	}
}

func (r *Resolver) WithConcurrency(n int) *Resolver {
	if n < 1 {
		n = 1
	}
	r.concurrency = n
	return r
}

// Register adds the network location of address to the peer set.
func (r *Resolver) Register(address string) (string, error) {
	peer, err := p2p.NetworkLocation(address)
	if err != nil {
		return "", err
	}
	if r.peers.Contains(peer) {
		r.log.Debugf("peer %s is already known", peer)
		return peer, nil
	}
	r.peers.Add(peer)
	r.metrics.Peers.Set(float64(r.peers.PeerLen()))
	r.log.Infof("registered peer %s", peer)
	return peer, nil
}

func (r *Resolver) Peers() []string {
	return r.peers.Peers()
}

// Resolve downloads every peer chain and adopts the longest valid one if
// it is strictly longer than the local chain. Unreachable peers are
// skipped. It reports whether the local chain was replaced.
func (r *Resolver) Resolve(ctx context.Context) (bool, error) {
	peers := r.peers.Peers()
	local, err := r.ledger.Len()
	if err != nil {
		return false, err
	}
	r.log.Infof("resolving against %d peers, local length %d", len(peers), local)

	fetched := r.fetchAll(ctx, peers)
	if err := ctx.Err(); err != nil {
		return false, err
	}

	best, from := r.selectLongestValid(peers, fetched, local)
	if best == nil {
		r.metrics.Resolutions.WithLabelValues(metrics.OutcomeKept).Inc()
		r.log.Info("our chain is authoritative")
		return false, nil
	}

	replaced, err := r.ledger.ReplaceIfLonger(best)
	if err != nil {
		return false, err
	}
	if !replaced {
		r.metrics.Resolutions.WithLabelValues(metrics.OutcomeKept).Inc()
		return false, nil
	}
	r.metrics.Resolutions.WithLabelValues(metrics.OutcomeReplaced).Inc()
	r.metrics.ChainLength.Set(float64(len(best)))
	r.log.Infof("our chain was replaced by the chain of %s", from)
	return true, nil
}

// fetchAll returns one result per peer, nil where the download failed.
func (r *Resolver) fetchAll(ctx context.Context, peers []string) []*p2p.ChainMsg {
	fetched := make([]*p2p.ChainMsg, len(peers))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, peer := range peers {
		i, peer := i, peer
		g.Go(func() error {
			msg, err := r.fetcher.FetchChain(ctx, peer)
			if err != nil {
				r.metrics.PeerFetchFailures.Inc()
				r.log.With("peer", peer).Warnf("skipping peer: %v", err)
				return nil
			}
			fetched[i] = msg
			return nil
		})
	}
	g.Wait()
	return fetched
}

// selectLongestValid scans results in peer order, so the outcome does not
// depend on which download finished first. Ties go to the earlier peer.
func (r *Resolver) selectLongestValid(
	peers []string, fetched []*p2p.ChainMsg, local uint64,
) ([]blocks.Block, string) {
	maxLength := local
	var best []blocks.Block
	var from string
	for i, msg := range fetched {
		if msg == nil {
			continue
		}
		r.log.Debugf("peer %s holds %d blocks", peers[i], msg.Length)
		if msg.Length <= maxLength {
			continue
		}
		if !r.ledger.IsValid(msg.Chain) {
			r.log.With("peer", peers[i]).Warn("peer chain is invalid")
			continue
		}
		maxLength = msg.Length
		best = msg.Chain
		from = peers[i]
	}
	return best, from
}
