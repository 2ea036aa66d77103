// Package hashes names the digest functions a node can link blocks and
// check proofs with. Every component of one node shares one Hasher.
package hashes

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const (
	SHA256   = "sha256"
	SHA3_256 = "sha3-256"
)

// Hasher produces a fixed-length lowercase hex digest.
type Hasher interface {
	Name() string
	Sum(data []byte) string
}

type sha256Hasher struct{}

func (sha256Hasher) Name() string { return SHA256 }

func (sha256Hasher) Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

type sha3Hasher struct{}

func (sha3Hasher) Name() string { return SHA3_256 }

func (sha3Hasher) Sum(data []byte) string {
	hash := sha3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Default is sha256, the digest every node uses unless configured.
func Default() Hasher {
	return sha256Hasher{}
}

func ByName(name string) (Hasher, error) {
	switch name {
	case SHA256, "":
		return sha256Hasher{}, nil
	case SHA3_256:
		return sha3Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", name)
	}
}
