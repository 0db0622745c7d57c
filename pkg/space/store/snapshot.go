package store

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/s2"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
	"github.com/duynguyendang/atomspace/pkg/space/dict"
)

// Key layout for snapshot records.
const (
	atomPrefix   = byte(0x01) // atomPrefix | id(8) -> record
	atomCountKey = byte(0x0F)
)

// Record kinds.
const (
	recNode = byte(0)
	recLink = byte(1)
)

// AtomStore persists a Space to BadgerDB. Atoms are stored as
// dictionary-encoded records, children before parents, so a linear scan
// reloads the graph in one pass. The in-memory Space remains the source
// of truth between snapshots.
type AtomStore struct {
	cfg    *Config
	db     *badger.DB
	dictDB *badger.DB
	dict   *dict.Encoder
	space  *space.Space
}

// Open opens (or creates) a persistent store and loads its snapshot into
// a fresh space.
func Open(cfg *Config) (*AtomStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := OpenBadgerDB(cfg)
	if err != nil {
		return nil, err
	}
	dictDB, err := OpenDictDB(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	enc, err := dict.NewEncoder(dictDB, cfg.LRUCacheSize)
	if err != nil {
		dictDB.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create dictionary encoder: %w", err)
	}

	st := &AtomStore{cfg: cfg, db: db, dictDB: dictDB, dict: enc, space: space.New()}
	if err := st.load(); err != nil {
		dictDB.Close()
		db.Close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	slog.Info("atom store opened", "dataDir", cfg.DataDir, "atoms", st.space.Count())
	return st, nil
}

// Space returns the live in-memory space backed by this store.
func (st *AtomStore) Space() *space.Space { return st.space }

// Save writes the current space as a full snapshot, replacing any
// previous one.
func (st *AtomStore) Save() error {
	if st.cfg.ReadOnly {
		return nil
	}
	if err := st.db.DropAll(); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	ids := make(map[*atom.Atom]uint64)
	wb := st.db.NewWriteBatch()
	defer wb.Cancel()

	var next uint64 = 1
	var write func(a *atom.Atom) error
	write = func(a *atom.Atom) error {
		if _, done := ids[a]; done {
			return nil
		}
		for _, c := range a.Out {
			if err := write(c); err != nil {
				return err
			}
		}
		rec, err := st.encodeRecord(a, ids)
		if err != nil {
			return err
		}
		ids[a] = next
		if err := wb.Set(makeAtomKey(next), rec); err != nil {
			return err
		}
		next++
		return nil
	}

	for _, a := range st.space.Atoms() {
		if err := write(a); err != nil {
			return fmt.Errorf("failed to write snapshot record: %w", err)
		}
	}

	countBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(countBuf, next-1)
	if err := wb.Set([]byte{atomCountKey}, countBuf); err != nil {
		return err
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	slog.Info("snapshot saved", "atoms", next-1)
	return nil
}

// Close snapshots the space and releases all resources.
func (st *AtomStore) Close() error {
	if err := st.Save(); err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return err
	}
	if err := st.dict.Close(); err != nil {
		return err
	}
	if err := st.dictDB.Close(); err != nil {
		slog.Error("failed to close dictionary database", "error", err)
	}
	if err := st.db.Close(); err != nil {
		return err
	}
	slog.Info("atom store closed")
	return nil
}

// encodeRecord serializes one atom. Children must already have IDs.
func (st *AtomStore) encodeRecord(a *atom.Atom, ids map[*atom.Atom]uint64) ([]byte, error) {
	typeID, err := st.dict.GetOrCreateID(string(a.Type))
	if err != nil {
		return nil, err
	}
	var raw []byte
	if a.IsNode() {
		nameID, err := st.dict.GetOrCreateID(a.Name)
		if err != nil {
			return nil, err
		}
		raw = make([]byte, 17)
		raw[0] = recNode
		binary.BigEndian.PutUint64(raw[1:], typeID)
		binary.BigEndian.PutUint64(raw[9:], nameID)
	} else {
		raw = make([]byte, 9+8*len(a.Out))
		raw[0] = recLink
		binary.BigEndian.PutUint64(raw[1:], typeID)
		for i, c := range a.Out {
			id, ok := ids[c]
			if !ok {
				return nil, fmt.Errorf("child of %s written out of order", a.Type)
			}
			binary.BigEndian.PutUint64(raw[9+8*i:], id)
		}
	}
	return s2.Encode(nil, raw), nil
}

// load replays the snapshot into the space. Records were written
// children-first, so every child ID resolves during the scan.
func (st *AtomStore) load() error {
	byID := make(map[uint64]*atom.Atom)
	return st.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte{atomPrefix}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != 9 {
				continue
			}
			id := binary.BigEndian.Uint64(key[1:])
			err := item.Value(func(val []byte) error {
				a, err := st.decodeRecord(val, byID)
				if err != nil {
					return err
				}
				byID[id] = st.space.Add(a)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (st *AtomStore) decodeRecord(val []byte, byID map[uint64]*atom.Atom) (*atom.Atom, error) {
	raw, err := s2.Decode(nil, val)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress record: %w", err)
	}
	if len(raw) < 9 {
		return nil, fmt.Errorf("truncated snapshot record")
	}
	typeName, err := st.dict.GetString(binary.BigEndian.Uint64(raw[1:9]))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve type: %w", err)
	}
	t, ok := atom.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown atom type %q in snapshot", typeName)
	}

	if raw[0] == recNode {
		if len(raw) != 17 {
			return nil, fmt.Errorf("malformed node record")
		}
		name, err := st.dict.GetString(binary.BigEndian.Uint64(raw[9:17]))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve name: %w", err)
		}
		return atom.NewNode(t, name), nil
	}

	n := (len(raw) - 9) / 8
	out := make([]*atom.Atom, n)
	for i := 0; i < n; i++ {
		id := binary.BigEndian.Uint64(raw[9+8*i:])
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("dangling child id %d in snapshot", id)
		}
		out[i] = c
	}
	return atom.NewLink(t, out...), nil
}

func makeAtomKey(id uint64) []byte {
	key := make([]byte, 9)
	key[0] = atomPrefix
	binary.BigEndian.PutUint64(key[1:], id)
	return key
}
