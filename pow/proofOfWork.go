package pow

import (
	"context"
	"errors"
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"simple-ledger-go/hashes"
	"simple-ledger-go/logging"
)

const (
	DEFAULT_DIFFICULTY = 4
	MAX_DIFFICULTY     = 64
	MAX_PROOF          = math.MaxUint64

	// candidates tested between two looks at the context
	checkInterval = 1 << 12
)

var ErrExhausted = errors.New("no proof below the integer limit")

// ProofOfWork searches for p' such that hash(decimal(p + p')) starts with
// difficulty '0' characters. The difficulty never adapts to block rate.
type ProofOfWork struct {
	hasher  hashes.Hasher
	prefix  string
	workers int
	log     logging.Logger
}

func NewProofOfWork(hasher hashes.Hasher, difficulty int) *ProofOfWork {
	return &ProofOfWork{
		hasher:  hasher,
		prefix:  strings.Repeat("0", difficulty),
		workers: 1,
		log:     logging.Base(),
	}
}

// WithWorkers spreads the search over n goroutines. The result is the
// same as with one worker.
func (pow *ProofOfWork) WithWorkers(n int) *ProofOfWork {
	if n < 1 {
		n = 1
	}
	pow.workers = n
	return pow
}

func (pow *ProofOfWork) WithLogger(log logging.Logger) *ProofOfWork {
	pow.log = log
	return pow
}

func (pow *ProofOfWork) Difficulty() int {
	return len(pow.prefix)
}

func (pow *ProofOfWork) Hasher() hashes.Hasher {
	return pow.hasher
}

// Guess is the digest the predicate inspects.
func (pow *ProofOfWork) Guess(lastProof, proof uint64) string {
	return pow.hasher.Sum([]byte(Sum(lastProof, proof)))
}

// Sum is the decimal form of lastProof + proof, carried past 64 bits.
func Sum(lastProof, proof uint64) string {
	sum, carry := bits.Add64(lastProof, proof, 0)
	if carry == 0 {
		return strconv.FormatUint(sum, 10)
	}
	exact := new(big.Int).SetUint64(lastProof)
	exact.Add(exact, new(big.Int).SetUint64(proof))
	return exact.String()
}

// Verify reports whether proof solves the puzzle posed by lastProof.
func (pow *ProofOfWork) Verify(lastProof, proof uint64) bool {
	return strings.HasPrefix(pow.Guess(lastProof, proof), pow.prefix)
}

// Search returns the smallest proof that solves the puzzle for lastProof.
func (pow *ProofOfWork) Search(lastProof uint64) uint64 {
	proof, _ := pow.SearchContext(context.Background(), lastProof)
	return proof
}

// SearchContext is Search that gives up when ctx is done.
func (pow *ProofOfWork) SearchContext(ctx context.Context, lastProof uint64) (uint64, error) {
	pow.log.Debugf("searching proof for last proof %d", lastProof)
	if pow.workers == 1 {
		return pow.scan(ctx, lastProof, 0, 1, nil)
	}

	var best atomic.Uint64
	best.Store(MAX_PROOF)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < pow.workers; w++ {
		start := uint64(w)
		g.Go(func() error {
			_, err := pow.scan(gctx, lastProof, start, uint64(pow.workers), &best)
			return err
		})
	}
	err := g.Wait()
	if err != nil {
		return 0, err
	}
	proof := best.Load()
	if proof == MAX_PROOF && !pow.Verify(lastProof, proof) {
		return 0, ErrExhausted
	}
	return proof, nil
}

// scan tests start, start+stride, ... in ascending order. With a shared
// best it stops once its candidates pass the smallest hit found so far;
// any smaller hit belongs to a worker that has not passed it yet.
func (pow *ProofOfWork) scan(
	ctx context.Context, lastProof, start, stride uint64, best *atomic.Uint64,
) (uint64, error) {
	var tested uint64
	for proof := start; ; proof += stride {
		if best != nil && proof >= best.Load() {
			return 0, nil
		}
		if pow.Verify(lastProof, proof) {
			if best == nil {
				return proof, nil
			}
			for {
				cur := best.Load()
				if proof >= cur || best.CompareAndSwap(cur, proof) {
					return proof, nil
				}
			}
		}

		tested++
		if tested%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if proof > MAX_PROOF-stride {
			if best != nil {
				return 0, nil
			}
			return 0, ErrExhausted
		}
	}
}
