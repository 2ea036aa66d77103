package transactions

import "golang.org/x/exp/slices"

// Bundle copies txs into a fresh slice that is never nil, so an empty
// bundle encodes as [] rather than null.
func Bundle(txs []Transaction) []Transaction {
	if len(txs) == 0 {
		return []Transaction{}
	}
	return slices.Clone(txs)
}
