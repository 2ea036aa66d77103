package database

import (
	"fmt"
	"os"

	bolt "go.etcd.io/bbolt"

	"simple-ledger-go/blocks"
	"simple-ledger-go/common"
	"simple-ledger-go/logging"
)

const (
	DATABASE_FILE = "%s_ledger.db"
	BLOCKS_BUCKET = "blocks"
)

// BoltStore keeps blocks in a bbolt file keyed by big endian position. The
// file is scratch space: it is wiped on open, so a restarted node starts
// from genesis like the in-memory store.
type BoltStore struct {
	innerDb *bolt.DB
	path    string
}

func DatabaseFileName(id string) string {
	return fmt.Sprintf(DATABASE_FILE, id)
}

func OpenBolt(path string, log logging.Logger) (*BoltStore, error) {
	if common.ExistFile(path) {
		log.Infof("discarding previous ledger file %s", path)
		err := os.Remove(path)
		if err != nil {
			return nil, err
		}
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket([]byte(BLOCKS_BUCKET))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Infof("ledger file %s is created", path)
	return &BoltStore{innerDb: db, path: path}, nil
}

func putBlock(b *bolt.Bucket, block *blocks.Block) error {
	enc, err := common.Encode(block)
	if err != nil {
		return err
	}
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}
	h, err := common.ToHex(seq)
	if err != nil {
		return err
	}
	return b.Put(h, enc)
}

func (db *BoltStore) Append(block *blocks.Block) error {
	return db.innerDb.Update(func(tx *bolt.Tx) error {
		return putBlock(tx.Bucket([]byte(BLOCKS_BUCKET)), block)
	})
}

// Last returns nil for an empty store.
func (db *BoltStore) Last() (*blocks.Block, error) {
	var enc []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		_, v := tx.Bucket([]byte(BLOCKS_BUCKET)).Cursor().Last()
		enc = append(enc, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(enc) == 0 {
		return nil, nil
	}
	return common.Decode[blocks.Block](enc)
}

func (db *BoltStore) Len() (uint64, error) {
	var n int
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(BLOCKS_BUCKET)).Stats().KeyN
		return nil
	})
	return uint64(n), err
}

func (db *BoltStore) All() ([]blocks.Block, error) {
	chain := []blocks.Block{}
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BLOCKS_BUCKET)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			block, err := common.Decode[blocks.Block](v)
			if err != nil {
				return err
			}
			chain = append(chain, *block)
		}
		return nil
	})
	return chain, err
}

// Replace swaps the whole chain in a single transaction.
func (db *BoltStore) Replace(chain []blocks.Block) error {
	return db.innerDb.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(BLOCKS_BUCKET))
		if err != nil {
			return err
		}
		b, err := tx.CreateBucket([]byte(BLOCKS_BUCKET))
		if err != nil {
			return err
		}
		for i := range chain {
			err = putBlock(b, &chain[i])
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *BoltStore) Close() error {
	return db.innerDb.Close()
}
