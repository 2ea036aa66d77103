package p2p

import (
	"github.com/algorand/go-deadlock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// KnownNodes is the set of peer network locations, unique by host:port.
type KnownNodes struct {
	deadlock.Mutex
	peers map[string]struct{}
}

func NewKnownNodes() *KnownNodes {
	return &KnownNodes{
		peers: map[string]struct{}{},
	}
}

// Add stores a network location as returned by NetworkLocation. Adding the
// same location twice is a no-op.
func (kn *KnownNodes) Add(peer string) {
	kn.Lock()
	defer kn.Unlock()
	kn.peers[peer] = struct{}{}
}

func (kn *KnownNodes) Contains(peer string) bool {
	kn.Lock()
	defer kn.Unlock()
	_, ok := kn.peers[peer]
	return ok
}

// Peers lists every known location in lexical order.
func (kn *KnownNodes) Peers() []string {
	kn.Lock()
	defer kn.Unlock()
	peers := maps.Keys(kn.peers)
	slices.Sort(peers)
	return peers
}

func (kn *KnownNodes) PeerLen() int {
	kn.Lock()
	defer kn.Unlock()
	return len(kn.peers)
}
