package p2p

import (
	"simple-ledger-go/blocks"
	"simple-ledger-go/transactions"
)

// ChainMsg is what a peer answers on GET /chain.
type ChainMsg struct {
	Chain  []blocks.Block `json:"chain"`
	Length uint64         `json:"length"`
}

type RegisterMsg struct {
	Nodes []string `json:"nodes"`
}

type RegisteredMsg struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type MessageMsg struct {
	Message string `json:"message"`
}

type MinedMsg struct {
	Message      string                     `json:"message"`
	Index        uint64                     `json:"index"`
	Transactions []transactions.Transaction `json:"transactions"`
	Proof        uint64                     `json:"proof"`
	PreviousHash string                     `json:"previous_hash"`
}

// ResolvedMsg carries the chain under new_chain when it was replaced and
// under chain otherwise.
type ResolvedMsg struct {
	Message  string         `json:"message"`
	NewChain []blocks.Block `json:"new_chain,omitempty"`
	Chain    []blocks.Block `json:"chain,omitempty"`
}

type ErrorMsg struct {
	Error string `json:"error"`
}
