package blockchain

import (
	"simple-ledger-go/blocks"
	"simple-ledger-go/hashes"
	"simple-ledger-go/logging"
)

// IsValid walks chain checking that every block links to the hash of the
// one before it. Proof-of-work is not re-checked here.
func IsValid(chain []blocks.Block, hasher hashes.Hasher, log logging.Logger) bool {
	for i := 1; i < len(chain); i++ {
		lastHash := blocks.Hash(&chain[i-1], hasher)
		log.Debugf(
			"checking block %d against %d: previous hash %s, expected %s",
			chain[i].Index, chain[i-1].Index, chain[i].PreviousHash, lastHash,
		)
		if chain[i].PreviousHash != lastHash {
			log.Infof("chain breaks at position %d", i)
			return false
		}
	}
	return true
}

// IsValid checks chain with the ledger's own hash function.
func (bc *Blockchain) IsValid(chain []blocks.Block) bool {
	return IsValid(chain, bc.hasher, bc.log)
}
