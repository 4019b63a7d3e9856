// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDirectory(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestLoad_ReadsAndTrims(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anthropic-api-key"), []byte("  sk-test-123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openalex-email"), []byte("dev@example.com"), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", s["anthropic-api-key"])
	assert.Equal(t, "dev@example.com", s["openalex-email"])
}

func TestLoad_SkipsHiddenAndEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty-key"), []byte("  \n"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestGet_FallbackWins(t *testing.T) {
	s := Secrets{"anthropic-api-key": "from-file"}

	assert.Equal(t, "from-flag", s.Get("anthropic-api-key", "from-flag"))
	assert.Equal(t, "from-file", s.Get("anthropic-api-key", ""))
	assert.Equal(t, "", s.Get("missing", ""))
}
