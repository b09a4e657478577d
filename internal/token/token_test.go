package token

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "nested", "token")}

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save("abc123"))

	info, err := os.Stat(store.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	require.NoError(t, store.Save("def456"))
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "def456", tok, "saving overwrites the previous token")
}

func TestLoadEmptyFile(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "token")}
	require.NoError(t, os.WriteFile(store.Path, []byte("\n"), 0600))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadTrimsNewline(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "token")}
	require.NoError(t, os.WriteFile(store.Path, []byte("abc123\n"), 0600))

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)
}
