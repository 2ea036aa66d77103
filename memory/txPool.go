package memory

import (
	"sync"

	"simple-ledger-go/transactions"
)

// TxPool holds transactions accepted but not yet committed to a block,
// in arrival order.
type TxPool struct {
	sync.Mutex
	pool []transactions.Transaction
}

func NewTransactionPool() *TxPool {
	return &TxPool{
		pool: []transactions.Transaction{},
	}
}

func (p *TxPool) Len() int {
	p.Lock()
	defer p.Unlock()
	return len(p.pool)
}

func (p *TxPool) Append(tx transactions.Transaction) {
	p.Lock()
	defer p.Unlock()
	p.pool = append(p.pool, tx)
}

func (p *TxPool) GetAll() []transactions.Transaction {
	p.Lock()
	defer p.Unlock()
	return transactions.Bundle(p.pool)
}

// Drain returns every pending transaction and empties the pool in one
// step, so nothing is lost or counted twice.
func (p *TxPool) Drain() []transactions.Transaction {
	p.Lock()
	defer p.Unlock()
	txs := transactions.Bundle(p.pool)
	p.pool = []transactions.Transaction{}
	return txs
}
