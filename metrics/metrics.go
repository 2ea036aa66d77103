// Package metrics holds the prometheus collectors of one node. Each node
// owns its own registry so several nodes can live in one process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	NAMESPACE = "ledger"

	OutcomeReplaced = "replaced"
	OutcomeKept     = "kept"
)

type Metrics struct {
	Registry *prometheus.Registry

	BlocksForged        prometheus.Counter
	ChainLength         prometheus.Gauge
	PendingTransactions prometheus.Gauge
	MiningSeconds       prometheus.Histogram
	Resolutions         *prometheus.CounterVec
	PeerFetchFailures   prometheus.Counter
	Peers               prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		BlocksForged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "blocks_forged_total",
			Help:      "Blocks mined by this node",
		}),
		ChainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "chain_length",
			Help:      "Number of blocks in the local chain",
		}),
		PendingTransactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "pending_transactions",
			Help:      "Transactions waiting for the next block",
		}),
		MiningSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "mining_seconds",
			Help:      "Wall time of proof-of-work searches",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "resolutions_total",
			Help:      "Consensus rounds by outcome",
		}, []string{"outcome"}),
		PeerFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "peer_fetch_failures_total",
			Help:      "Peer chain downloads that were skipped",
		}),
		Peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "peers",
			Help:      "Registered peers",
		}),
	}
	m.Registry.MustRegister(
		m.BlocksForged,
		m.ChainLength,
		m.PendingTransactions,
		m.MiningSeconds,
		m.Resolutions,
		m.PeerFetchFailures,
		m.Peers,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
