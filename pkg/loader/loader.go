// Package loader bulk-loads atom files into a space. Files hold
// s-expressions, one or more per file; parsing runs in parallel and
// interning relies on the space's own locking.
package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/duynguyendang/atomspace/pkg/atom/sexpr"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// LoadFile parses one atom file and interns its atoms into sp. Returns
// the number of top-level atoms interned.
func LoadFile(sp *space.Space, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	atoms, err := sexpr.ParseAll(string(raw))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, a := range atoms {
		sp.Add(a)
	}
	return len(atoms), nil
}

// LoadDir walks dir and loads every .atom and .scm file, parsing files in
// parallel. Returns the total number of top-level atoms interned.
func LoadDir(sp *space.Space, dir string) (int, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".atom" || ext == ".scm" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	var total atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, path := range files {
		g.Go(func() error {
			n, err := LoadFile(sp, path)
			if err != nil {
				return err
			}
			total.Add(int64(n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(total.Load()), err
	}
	slog.Info("directory loaded", "dir", dir, "files", len(files), "atoms", total.Load())
	return int(total.Load()), nil
}
