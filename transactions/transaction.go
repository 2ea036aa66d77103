package transactions

import (
	"fmt"
)

// RewardSender marks a transaction minted by the node that forged the
// block. It has no originating account.
const (
	RewardSender = "0"
	RewardAmount = 1.0
)

// Transaction is a transfer waiting in the pending pool or committed in a
// block. Amounts are not checked against any balance.
type Transaction struct {
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
	Sender    string  `json:"sender"`
}

func NewReward(recipient string) Transaction {
	return Transaction{
		Sender:    RewardSender,
		Recipient: recipient,
		Amount:    RewardAmount,
	}
}

func (tx *Transaction) IsReward() bool {
	return tx.Sender == RewardSender
}

// MissingFieldError reports a transaction request lacking a field.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s", e.Field)
}

// Request is a transaction as submitted by a client, where any field may
// be absent.
type Request struct {
	Sender    *string  `json:"sender"`
	Recipient *string  `json:"recipient"`
	Amount    *float64 `json:"amount"`
}

func (r *Request) ContentsCheck() error {
	if r.Sender == nil {
		return MissingFieldError{Field: "sender"}
	}
	if r.Recipient == nil {
		return MissingFieldError{Field: "recipient"}
	}
	if r.Amount == nil {
		return MissingFieldError{Field: "amount"}
	}
	return nil
}

func (r *Request) Transaction() (Transaction, error) {
	err := r.ContentsCheck()
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Sender:    *r.Sender,
		Recipient: *r.Recipient,
		Amount:    *r.Amount,
	}, nil
}
