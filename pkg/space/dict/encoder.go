// Package dict implements a persistent bi-directional string <-> uint64
// dictionary on BadgerDB with an in-memory LRU cache. Snapshots store
// atom type and node names as dictionary IDs instead of raw strings.
package dict

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrNotFound is returned when a key or ID is absent from the dictionary.
var ErrNotFound = errors.New("key not found in dictionary")

// Key prefixes for dictionary storage.
const (
	forwardPrefix = byte(0x80) // string -> ID
	reversePrefix = byte(0x81) // ID -> string
	seqKey        = byte(0x8F) // next-ID counter
)

// Encoder maps strings to stable uint64 IDs and back.
type Encoder struct {
	db *badger.DB

	mu     sync.Mutex // guards nextID allocation
	nextID uint64

	forward *expirable.LRU[string, uint64]
	reverse *expirable.LRU[uint64, string]
}

// NewEncoder opens an encoder over db, loading the ID counter when one
// was persisted by an earlier run.
func NewEncoder(db *badger.DB, cacheSize int) (*Encoder, error) {
	e := &Encoder{
		db:      db,
		nextID:  1, // 0 is reserved as "no ID"
		forward: expirable.NewLRU[string, uint64](cacheSize, nil, 0),
		reverse: expirable.NewLRU[uint64, string](cacheSize, nil, 0),
	}
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte{seqKey})
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) >= 8 {
				e.nextID = binary.BigEndian.Uint64(val)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary counter: %w", err)
	}
	return e, nil
}

// GetOrCreateID returns the ID for s, allocating one if needed.
func (e *Encoder) GetOrCreateID(s string) (uint64, error) {
	if id, ok := e.forward.Get(s); ok {
		return id, nil
	}
	id, err := e.GetID(s)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Re-check under the lock; another goroutine may have won the race.
	if id, err := e.getIDFromDB(s); err == nil {
		e.forward.Add(s, id)
		return id, nil
	}

	id = e.nextID
	e.nextID++
	err = e.db.Update(func(txn *badger.Txn) error {
		idBuf := make([]byte, 8)
		binary.BigEndian.PutUint64(idBuf, id)
		if err := txn.Set(makeForwardKey(s), idBuf); err != nil {
			return err
		}
		if err := txn.Set(makeReverseKey(id), []byte(s)); err != nil {
			return err
		}
		seqBuf := make([]byte, 8)
		binary.BigEndian.PutUint64(seqBuf, e.nextID)
		return txn.Set([]byte{seqKey}, seqBuf)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate dictionary ID: %w", err)
	}
	e.forward.Add(s, id)
	e.reverse.Add(id, s)
	return id, nil
}

// GetID returns the ID for s without allocating.
func (e *Encoder) GetID(s string) (uint64, error) {
	if id, ok := e.forward.Get(s); ok {
		return id, nil
	}
	id, err := e.getIDFromDB(s)
	if err != nil {
		return 0, err
	}
	e.forward.Add(s, id)
	return id, nil
}

func (e *Encoder) getIDFromDB(s string) (uint64, error) {
	var id uint64
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeForwardKey(s))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	return id, err
}

// GetString returns the string for an ID.
func (e *Encoder) GetString(id uint64) (string, error) {
	if s, ok := e.reverse.Get(id); ok {
		return s, nil
	}
	var s string
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeReverseKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			s = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	e.reverse.Add(id, s)
	return s, nil
}

// Close releases resources. The counter is persisted on every allocation,
// so nothing is flushed here.
func (e *Encoder) Close() error {
	return nil
}

func makeForwardKey(s string) []byte {
	key := make([]byte, 1+len(s))
	key[0] = forwardPrefix
	copy(key[1:], s)
	return key
}

func makeReverseKey(id uint64) []byte {
	key := make([]byte, 9)
	key[0] = reversePrefix
	binary.BigEndian.PutUint64(key[1:], id)
	return key
}
