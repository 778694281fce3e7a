package collab

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPersistence_WritesFilesUnderJobDir(t *testing.T) {
	base := t.TempDir()
	p, err := NewLocalPersistence(base)
	require.NoError(t, err)

	files := map[string][]byte{
		"article.html": []byte("<html></html>"),
		"nested/data.json": []byte(`{"a":1}`),
	}
	require.NoError(t, p.Store(context.Background(), "job-1", files, nil))

	got, err := os.ReadFile(filepath.Join(base, "job-1", "article.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(got))

	got, err = os.ReadFile(filepath.Join(base, "job-1", "nested", "data.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestLocalPersistence_WritesMetadataWhenPresent(t *testing.T) {
	base := t.TempDir()
	p, err := NewLocalPersistence(base)
	require.NoError(t, err)

	require.NoError(t, p.Store(context.Background(), "job-2", nil, map[string]any{"status": "done"}))

	got, err := os.ReadFile(filepath.Join(base, "job-2", "metadata.json"))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.Equal(t, "done", decoded["status"])
}

func TestLocalPersistence_OmitsMetadataFileWhenNil(t *testing.T) {
	base := t.TempDir()
	p, err := NewLocalPersistence(base)
	require.NoError(t, err)

	require.NoError(t, p.Store(context.Background(), "job-3", map[string][]byte{"a.txt": []byte("x")}, nil))

	_, err = os.Stat(filepath.Join(base, "job-3", "metadata.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewLocalPersistence_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "base")
	_, err := NewLocalPersistence(base)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
