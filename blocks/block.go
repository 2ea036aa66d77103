package blocks

import (
	"fmt"
	"time"

	"simple-ledger-go/common"
	"simple-ledger-go/hashes"
	"simple-ledger-go/transactions"
)

const (
	GENESIS_INDEX         uint64 = 1
	GENESIS_PROOF         uint64 = 100
	GENESIS_PREVIOUS_HASH        = "1"
)

type Block struct {
	Index        uint64                     `json:"index"`
	PreviousHash string                     `json:"previous_hash"`
	Proof        uint64                     `json:"proof"`
	Timestamp    float64                    `json:"timestamp"`
	Transactions []transactions.Transaction `json:"transactions"`
}

func NewBlock(
	index uint64,
	txs []transactions.Transaction,
	proof uint64,
	previousHash string,
) *Block {
	block := Block{
		Index:        index,
		Timestamp:    Now(),
		Transactions: transactions.Bundle(txs),
		Proof:        proof,
		PreviousHash: previousHash,
	}
	return &block
}

// NewGenesis returns the first block of every ledger. Its proof and
// previous hash are placeholders.
func NewGenesis() *Block {
	return NewBlock(GENESIS_INDEX, nil, GENESIS_PROOF, GENESIS_PREVIOUS_HASH)
}

// Now is the current time in fractional seconds since the epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Hash digests the canonical encoding of the block.
func Hash(block *Block, hasher hashes.Hasher) string {
	b := *block
	b.Transactions = transactions.Bundle(block.Transactions)
	enc, err := common.CanonicalEncode(&b)
	if err != nil {
		// only plain strings and finite numbers live in a block
		panic(fmt.Errorf("block %d is not encodable: %w", block.Index, err))
	}
	return hasher.Sum(enc)
}

func Clone(chain []Block) []Block {
	out := make([]Block, len(chain))
	for i := range chain {
		out[i] = chain[i]
		out[i].Transactions = transactions.Bundle(chain[i].Transactions)
	}
	return out
}
