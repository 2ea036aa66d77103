package nodes

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/google/uuid"
)

// NewIdentity returns a random opaque node identifier, the base58 form of
// a version 4 uuid.
func NewIdentity() string {
	id := uuid.New()
	return base58.Encode(id[:])
}
