package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"simple-ledger-go/common"
	"simple-ledger-go/hashes"
	"simple-ledger-go/transactions"
)

// reordered has the fields of Block declared in a different order.
type reordered struct {
	Transactions []transactions.Transaction `json:"transactions"`
	Timestamp    float64                    `json:"timestamp"`
	Index        uint64                     `json:"index"`
	Proof        uint64                     `json:"proof"`
	PreviousHash string                     `json:"previous_hash"`
}

func TestGenesis(t *testing.T) {
	g := NewGenesis()
	require.Equal(t, uint64(1), g.Index)
	require.Equal(t, uint64(100), g.Proof)
	require.Equal(t, "1", g.PreviousHash)
	require.NotNil(t, g.Transactions)
	require.Empty(t, g.Transactions)
}

func TestHashCanonicalEncoding(t *testing.T) {
	b := Block{
		Index:        2,
		Timestamp:    1700000000.25,
		Transactions: []transactions.Transaction{{Sender: "0", Recipient: "n", Amount: 1}},
		Proof:        35293,
		PreviousHash: "abc",
	}
	enc, err := common.CanonicalEncode(&b)
	require.NoError(t, err)
	require.Equal(t,
		`{"index":2,"previous_hash":"abc","proof":35293,"timestamp":1700000000.25,`+
			`"transactions":[{"amount":1,"recipient":"n","sender":"0"}]}`,
		string(enc))
	require.Equal(t, hashes.Default().Sum(enc), Hash(&b, hashes.Default()))
}

func TestHashNilAndEmptyTransactionsAgree(t *testing.T) {
	a := Block{Index: 1, Proof: 100, PreviousHash: "1", Timestamp: 1}
	b := a
	b.Transactions = []transactions.Transaction{}
	require.Equal(t, Hash(&a, hashes.Default()), Hash(&b, hashes.Default()))
}

func TestHashSurvivesWireRoundTrip(t *testing.T) {
	h := hashes.Default()
	b := NewBlock(7, []transactions.Transaction{{Sender: "a", Recipient: "b", Amount: 0.1}}, 12, "prev")
	enc, err := json.Marshal(b)
	require.NoError(t, err)

	var back Block
	require.NoError(t, json.Unmarshal(enc, &back))
	require.Equal(t, Hash(b, h), Hash(&back, h))
}

func TestHashFieldOrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := hashes.Default()
		n := rapid.IntRange(0, 4).Draw(t, "txs")
		txs := make([]transactions.Transaction, n)
		for i := range txs {
			txs[i] = transactions.Transaction{
				Sender:    rapid.String().Draw(t, "sender"),
				Recipient: rapid.String().Draw(t, "recipient"),
				Amount:    float64(rapid.Int64().Draw(t, "amount")),
			}
		}
		b := Block{
			Index:        rapid.Uint64().Draw(t, "index"),
			Timestamp:    float64(rapid.Int64Range(0, 1<<40).Draw(t, "ts")) / 1000,
			Transactions: txs,
			Proof:        rapid.Uint64().Draw(t, "proof"),
			PreviousHash: rapid.StringMatching(`[0-9a-f]{64}`).Draw(t, "prev"),
		}
		r := reordered{
			PreviousHash: b.PreviousHash,
			Proof:        b.Proof,
			Index:        b.Index,
			Timestamp:    b.Timestamp,
			Transactions: transactions.Bundle(b.Transactions),
		}

		want, err := common.CanonicalEncode(&b)
		if err != nil {
			t.Fatal(err)
		}
		got, err := common.CanonicalEncode(&r)
		if err != nil {
			t.Fatal(err)
		}
		if string(want) != string(got) {
			t.Fatalf("encodings differ:\n%s\n%s", want, got)
		}
		if Hash(&b, h) != Hash(&b, h) {
			t.Fatal("hash is not deterministic")
		}
	})
}

func TestHashChangesWithContent(t *testing.T) {
	h := hashes.Default()
	b := NewBlock(2, nil, 5, "x")
	c := *b
	c.Proof = 6
	require.NotEqual(t, Hash(b, h), Hash(&c, h))

	s3, err := hashes.ByName(hashes.SHA3_256)
	require.NoError(t, err)
	require.NotEqual(t, Hash(b, h), Hash(b, s3))
}

func TestClone(t *testing.T) {
	chain := []Block{*NewGenesis(), *NewBlock(2, []transactions.Transaction{{Sender: "a"}}, 1, "p")}
	out := Clone(chain)
	out[1].Transactions[0].Sender = "z"
	require.Equal(t, "a", chain[1].Transactions[0].Sender)
}
