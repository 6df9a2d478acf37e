package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s, err := Load(path)

	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Token())
	assert.Empty(t, s.Username())
}

func TestEstablishPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sisfarm", "token")

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Establish("tok-abc", "admin"))
	assert.True(t, s.LoggedIn())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", reloaded.Token())
	assert.Equal(t, "admin", reloaded.Username())
}

func TestEstablishRestrictsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "sisfarm", "token")
	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Establish("tok-abc", "admin"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestClearRemovesPersistedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Establish("tok-abc", "admin"))

	require.NoError(t, s.Clear())

	assert.False(t, s.LoggedIn())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Clearing an already-clean session is fine.
	require.NoError(t, s.Clear())
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)

	assert.Error(t, err)
}
