package store

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// OpenBadgerDB opens the snapshot database per the configuration.
func OpenBadgerDB(cfg *Config) (*badger.DB, error) {
	return openAt(cfg, filepath.Join(cfg.DataDir, "badger"))
}

// OpenDictDB opens the dictionary database. Dictionary writes are always
// synchronous: losing an ID allocation would corrupt every snapshot
// record referencing it.
func OpenDictDB(cfg *Config) (*badger.DB, error) {
	dictCfg := *cfg
	dictCfg.SyncWrites = true
	return openAt(&dictCfg, cfg.DictDir)
}

func openAt(cfg *Config, dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("")
		opts.InMemory = true
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.ReadOnly = cfg.ReadOnly
	opts.Logger = nil
	if cfg.Compression {
		opts.Compression = options.ZSTD
	} else {
		opts.Compression = options.None
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", dir, err)
	}
	slog.Info("BadgerDB opened", "dir", dir, "inMemory", cfg.InMemory, "readOnly", cfg.ReadOnly)
	return db, nil
}
