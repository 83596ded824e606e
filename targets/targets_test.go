package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempTargets(t, "https://example.com/p/1\n\n  https://example.com/p/2  \n\t\nuser123\n")

	got, err := LoadFromFile(path)
	require.NoError(t, err)

	// Blank and whitespace-only lines are dropped, order is preserved,
	// surrounding whitespace is stripped.
	assert.Equal(t, []string{
		"https://example.com/p/1",
		"https://example.com/p/2",
		"user123",
	}, got)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := writeTempTargets(t, "\n   \n\t\n")

	_, err := LoadFromFile(path)
	assert.Error(t, err, "a file with no usable lines is an error")
}
