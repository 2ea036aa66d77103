package database

import (
	"simple-ledger-go/blocks"
)

// ChainStore keeps the ordered block sequence of one ledger. Callers
// serialize access; implementations do not validate blocks.
type ChainStore interface {
	Append(block *blocks.Block) error
	Last() (*blocks.Block, error)
	Len() (uint64, error)
	All() ([]blocks.Block, error)
	Replace(chain []blocks.Block) error
	Close() error
}

type MemoryStore struct {
	blocks []blocks.Block
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks: make([]blocks.Block, 0),
	}
}

func (m *MemoryStore) Append(block *blocks.Block) error {
	m.blocks = append(m.blocks, *block)
	return nil
}

// Last returns nil for an empty store.
func (m *MemoryStore) Last() (*blocks.Block, error) {
	if len(m.blocks) == 0 {
		return nil, nil
	}
	last := blocks.Clone(m.blocks[len(m.blocks)-1:])[0]
	return &last, nil
}

func (m *MemoryStore) Len() (uint64, error) {
	return uint64(len(m.blocks)), nil
}

func (m *MemoryStore) All() ([]blocks.Block, error) {
	return blocks.Clone(m.blocks), nil
}

func (m *MemoryStore) Replace(chain []blocks.Block) error {
	m.blocks = blocks.Clone(chain)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
