package pow

import (
	"context"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"simple-ledger-go/hashes"
)

func TestSearchFromOneHundred(t *testing.T) {
	pow := NewProofOfWork(hashes.Default(), DEFAULT_DIFFICULTY)

	proof := pow.Search(100)

	require.True(t, pow.Verify(100, proof))
	guess := hashes.Default().Sum([]byte(strconv.FormatUint(100+proof, 10)))
	require.True(t, strings.HasPrefix(guess, "0000"), guess)
}

func TestVerifyUsesSumNotConcatenation(t *testing.T) {
	pow := NewProofOfWork(hashes.Default(), 1)
	require.Equal(t, pow.Guess(100, 5), pow.Guess(5, 100))
	require.Equal(t, hashes.Default().Sum([]byte("105")), pow.Guess(100, 5))
}

func TestSearchIsSmallest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		difficulty := rapid.IntRange(1, 3).Draw(t, "difficulty")
		lastProof := rapid.Uint64Range(0, 1_000_000).Draw(t, "lastProof")
		pow := NewProofOfWork(hashes.Default(), difficulty)

		proof := pow.Search(lastProof)
		if !pow.Verify(lastProof, proof) {
			t.Fatalf("proof %d does not verify", proof)
		}
		for p := uint64(0); p < proof; p++ {
			if pow.Verify(lastProof, p) {
				t.Fatalf("smaller proof %d verifies, search gave %d", p, proof)
			}
		}
	})
}

func TestWorkersAgreeWithSingleSearch(t *testing.T) {
	for _, name := range []string{hashes.SHA256, hashes.SHA3_256} {
		h, err := hashes.ByName(name)
		require.NoError(t, err)
		single := NewProofOfWork(h, 3)
		for _, workers := range []int{2, 3, 8} {
			multi := NewProofOfWork(h, 3).WithWorkers(workers)
			for _, last := range []uint64{0, 1, 100, 35293, 99999} {
				require.Equal(t, single.Search(last), multi.Search(last),
					"hash %s workers %d last %d", name, workers, last)
			}
		}
	}
}

func TestSearchContextCancelled(t *testing.T) {
	// no hex digest starts with 64 zeros in practice
	pow := NewProofOfWork(hashes.Default(), MAX_DIFFICULTY)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pow.SearchContext(ctx, 100)
	require.ErrorIs(t, err, context.Canceled)

	_, err = pow.WithWorkers(4).SearchContext(ctx, 100)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithWorkersClamps(t *testing.T) {
	pow := NewProofOfWork(hashes.Default(), 2).WithWorkers(0)
	require.Equal(t, 1, pow.workers)
	require.Equal(t, 2, pow.Difficulty())
	require.Equal(t, hashes.SHA256, pow.Hasher().Name())
}

func TestSumCarriesPastUint64(t *testing.T) {
	require.Equal(t, "105", Sum(100, 5))
	require.Equal(t, "18446744073709551615", Sum(math.MaxUint64, 0))
	require.Equal(t, "18446744073709551616", Sum(math.MaxUint64, 1))
	require.Equal(t, "36893488147419103230", Sum(math.MaxUint64, math.MaxUint64))
}

func TestGuessNearIntegerLimit(t *testing.T) {
	pow := NewProofOfWork(hashes.Default(), 2)
	require.NotEqual(t, pow.Guess(0, 0), pow.Guess(math.MaxUint64, 1))
	require.Equal(t, hashes.Default().Sum([]byte("18446744073709551616")), pow.Guess(math.MaxUint64, 1))

	proof := pow.Search(math.MaxUint64)
	require.True(t, pow.Verify(math.MaxUint64, proof))
	for p := uint64(0); p < proof; p++ {
		require.False(t, pow.Verify(math.MaxUint64, p), "smaller proof %d", p)
	}
	require.Equal(t, proof, pow.WithWorkers(4).Search(math.MaxUint64))
}
