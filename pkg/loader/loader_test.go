package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.atom")
	require.NoError(t, os.WriteFile(path, []byte(`
; membership facts
(Member (Concept "sea") (Concept "beach"))
(Member (Concept "sand") (Concept "beach"))
`), 0o644))

	sp := space.New()
	n, err := LoadFile(sp, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, sp.Contains(atom.NewLink(atom.MemberT,
		atom.NewNode(atom.ConceptT, "sea"),
		atom.NewNode(atom.ConceptT, "beach"))))
}

func TestLoadFileErrors(t *testing.T) {
	sp := space.New()
	_, err := LoadFile(sp, filepath.Join(t.TempDir(), "missing.atom"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.atom")
	require.NoError(t, os.WriteFile(bad, []byte(`(Concept "unterminated`), 0o644))
	_, err = LoadFile(sp, bad)
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	files := map[string]string{
		"a.atom":        `(Concept "one")`,
		"b.scm":         `(Concept "two") (Concept "three")`,
		"nested/c.atom": `(Member (Concept "one") (Concept "two"))`,
		"ignored.txt":   `not atoms at all`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	sp := space.New()
	n, err := LoadDir(sp, dir)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, sp.Contains(atom.NewNode(atom.ConceptT, "three")))
	assert.False(t, sp.Contains(atom.NewNode(atom.ConceptT, "not")))
}

func TestLoadDirPropagatesParseError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.atom"), []byte(`(Oops)`), 0o644))

	sp := space.New()
	_, err := LoadDir(sp, dir)
	assert.Error(t, err)
}
