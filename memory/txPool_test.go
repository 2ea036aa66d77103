package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"simple-ledger-go/transactions"
)

func TestPoolKeepsArrivalOrder(t *testing.T) {
	p := NewTransactionPool()
	require.Equal(t, 0, p.Len())

	p.Append(transactions.Transaction{Sender: "a", Recipient: "b", Amount: 1})
	p.Append(transactions.Transaction{Sender: "a", Recipient: "b", Amount: 1})
	p.Append(transactions.Transaction{Sender: "c", Recipient: "d", Amount: -5})

	all := p.GetAll()
	require.Len(t, all, 3)
	require.Equal(t, "c", all[2].Sender)
	require.Equal(t, 3, p.Len())
}

func TestDrainEmptiesPool(t *testing.T) {
	p := NewTransactionPool()
	p.Append(transactions.Transaction{Sender: "a"})

	txs := p.Drain()
	require.Len(t, txs, 1)
	require.Equal(t, 0, p.Len())

	empty := p.Drain()
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestConcurrentAppendThenDrain(t *testing.T) {
	p := NewTransactionPool()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Append(transactions.Transaction{Sender: "s"})
		}()
	}
	wg.Wait()
	require.Len(t, p.Drain(), 50)
}
