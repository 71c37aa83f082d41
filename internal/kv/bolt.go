package kv

import (
	"fmt"
	"regexp"
	"sort"

	"go.etcd.io/bbolt"
)

// boltKV implements KV over a single bbolt file, one bucket per named
// datastore. Grounded on andreyvit-edb's storage_bolt.go bucket-per-name
// wrapping of *bbolt.DB/*bbolt.Tx.
type boltKV struct {
	db *bbolt.DB
}

// NewBoltKV opens (creating if necessary) the bbolt file at path.
func NewBoltKV(path string) (*boltKV, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", path, err)
	}
	return &boltKV{db: db}, nil
}

func (k *boltKV) Init(db string) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(db))
		return err
	})
}

func (k *boltKV) Unlink(db string) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(db)) == nil {
			return nil
		}
		if err := tx.DeleteBucket([]byte(db)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(db))
		return err
	})
}

func (k *boltKV) Close() error {
	return k.db.Close()
}

func (k *boltKV) Get(db, key string) ([]byte, bool, error) {
	var value []byte
	var found bool
	err := k.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(db))
		if b == nil {
			return ErrNotInitialized
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		if len(v) > 0 {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, found, err
}

func (k *boltKV) Set(db, key string, value []byte) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(db))
		if b == nil {
			return ErrNotInitialized
		}
		if value == nil {
			value = []byte{}
		}
		return b.Put([]byte(key), value)
	})
}

func (k *boltKV) Delete(db, key string) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(db))
		if b == nil {
			return ErrNotInitialized
		}
		return b.Delete([]byte(key))
	})
}

func (k *boltKV) Exists(db, key string) (bool, error) {
	var exists bool
	err := k.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(db))
		if b == nil {
			return ErrNotInitialized
		}
		exists = b.Get([]byte(key)) != nil
		return nil
	})
	return exists, err
}

// RegexScan walks the bucket's ordered cursor once and filters by re. The
// result is sorted by key, as the KV interface documents.
func (k *boltKV) RegexScan(db, re string) ([]Pair, error) {
	rx, err := regexp.Compile(re)
	if err != nil {
		return nil, fmt.Errorf("kv: bad regex %q: %w", re, err)
	}
	var pairs []Pair
	err = k.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(db))
		if b == nil {
			return ErrNotInitialized
		}
		c := b.Cursor()
		for bk, bv := c.First(); bk != nil; bk, bv = c.Next() {
			key := string(bk)
			if !rx.MatchString(key) {
				continue
			}
			var value []byte
			if len(bv) > 0 {
				value = append([]byte(nil), bv...)
			}
			pairs = append(pairs, Pair{Key: key, Value: value})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs, nil
}

var _ KV = (*boltKV)(nil)
