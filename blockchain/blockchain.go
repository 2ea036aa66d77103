package blockchain

import (
	"errors"
	"fmt"

	"github.com/algorand/go-deadlock"

	"simple-ledger-go/blocks"
	"simple-ledger-go/database"
	"simple-ledger-go/hashes"
	"simple-ledger-go/logging"
	"simple-ledger-go/memory"
	"simple-ledger-go/transactions"
)

var (
	// ErrEmptyChain is the panic value when a ledger has lost its genesis.
	ErrEmptyChain = errors.New("chain has no blocks")
	// ErrStaleTip means the chain moved on while a proof was searched.
	ErrStaleTip = errors.New("last block changed during mining")
)

// Blockchain is one node's ledger: the chain plus the pending pool, both
// guarded by the embedded mutex.
type Blockchain struct {
	deadlock.Mutex
	store  database.ChainStore
	txPool *memory.TxPool
	hasher hashes.Hasher
	log    logging.Logger
}

func NewBlockchain(
	store database.ChainStore, hasher hashes.Hasher, log logging.Logger,
) (*Blockchain, error) {
	bc := Blockchain{
		store:  store,
		txPool: memory.NewTransactionPool(),
		hasher: hasher,
		log:    log,
	}

	height, err := store.Len()
	if err != nil {
		return nil, err
	}
	if height == 0 {
		err = store.Append(blocks.NewGenesis())
		if err != nil {
			return nil, err
		}
		height = 1
	}

	log.Infof("blockchain starts at height %d, hash %s", height, hasher.Name())
	return &bc, nil
}

func (bc *Blockchain) Hasher() hashes.Hasher {
	return bc.hasher
}

func (bc *Blockchain) Hash(block *blocks.Block) string {
	return blocks.Hash(block, bc.hasher)
}

// AppendTransaction queues tx and returns the index of the block that
// will include it.
func (bc *Blockchain) AppendTransaction(tx transactions.Transaction) (uint64, error) {
	bc.Lock()
	defer bc.Unlock()

	height, err := bc.store.Len()
	if err != nil {
		return 0, err
	}
	bc.txPool.Append(tx)
	return height + 1, nil
}

// NewBlock forges the next block from the whole pending pool. An empty
// previousHash links the block to the current last block.
func (bc *Blockchain) NewBlock(proof uint64, previousHash string) (*blocks.Block, error) {
	bc.Lock()
	defer bc.Unlock()
	return bc.newBlockLocked(proof, previousHash)
}

// CommitMined credits reward and forges the next block, provided the last
// block still hashes to previousHash.
func (bc *Blockchain) CommitMined(
	proof uint64, previousHash string, reward transactions.Transaction,
) (*blocks.Block, error) {
	bc.Lock()
	defer bc.Unlock()

	last, err := bc.lastBlockLocked()
	if err != nil {
		return nil, err
	}
	if bc.Hash(last) != previousHash {
		return nil, ErrStaleTip
	}
	return bc.newBlockLocked(proof, previousHash, reward)
}

func (bc *Blockchain) newBlockLocked(
	proof uint64, previousHash string, extra ...transactions.Transaction,
) (*blocks.Block, error) {
	last, err := bc.lastBlockLocked()
	if err != nil {
		return nil, err
	}
	if previousHash == "" {
		previousHash = bc.Hash(last)
	}
	height, err := bc.store.Len()
	if err != nil {
		return nil, err
	}

	txs := append(bc.txPool.GetAll(), extra...)
	block := blocks.NewBlock(height+1, txs, proof, previousHash)
	err = bc.store.Append(block)
	if err != nil {
		return nil, fmt.Errorf("storing block %d: %w", block.Index, err)
	}
	bc.txPool.Drain()

	bc.log.WithFields(logging.Fields{
		"index": block.Index,
		"txs":   len(block.Transactions),
		"proof": block.Proof,
	}).Info("new block forged")
	return block, nil
}

// LastBlock returns the final block of the chain.
func (bc *Blockchain) LastBlock() (*blocks.Block, error) {
	bc.Lock()
	defer bc.Unlock()
	return bc.lastBlockLocked()
}

func (bc *Blockchain) lastBlockLocked() (*blocks.Block, error) {
	last, err := bc.store.Last()
	if err != nil {
		return nil, err
	}
	if last == nil {
		panic(ErrEmptyChain)
	}
	return last, nil
}

func (bc *Blockchain) Len() (uint64, error) {
	bc.Lock()
	defer bc.Unlock()
	return bc.store.Len()
}

// Chain returns a copy of every block.
func (bc *Blockchain) Chain() ([]blocks.Block, error) {
	bc.Lock()
	defer bc.Unlock()
	return bc.store.All()
}

func (bc *Blockchain) Pending() []transactions.Transaction {
	bc.Lock()
	defer bc.Unlock()
	return bc.txPool.GetAll()
}

// ReplaceIfLonger swaps in chain when it is strictly longer than the
// local one at the time of the call. Validity is the caller's concern.
// The pending pool is left alone.
func (bc *Blockchain) ReplaceIfLonger(chain []blocks.Block) (bool, error) {
	bc.Lock()
	defer bc.Unlock()

	height, err := bc.store.Len()
	if err != nil {
		return false, err
	}
	if uint64(len(chain)) <= height {
		bc.log.Infof(
			"candidate chain of length %d no longer beats local length %d",
			len(chain), height,
		)
		return false, nil
	}

	err = bc.store.Replace(chain)
	if err != nil {
		return false, err
	}
	bc.log.Infof("chain replaced, height %d -> %d", height, len(chain))
	return true, nil
}

func (bc *Blockchain) Close() error {
	return bc.store.Close()
}
