package vectorindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhaven/internal/domain"
)

func writePair(t *testing.T, dir, model string, vecs [][]float32, ids []string) (string, string) {
	t.Helper()
	ix, err := New(len(vecs[0]), model)
	require.NoError(t, err)
	for _, v := range vecs {
		require.NoError(t, ix.Add(v))
	}
	vectorPath := filepath.Join(dir, "index.bin")
	mappingPath := filepath.Join(dir, "ids.json")
	require.NoError(t, ix.WriteFile(vectorPath))
	require.NoError(t, Mapping{Model: model, IDs: ids}.WriteFile(mappingPath))
	return vectorPath, mappingPath
}

func TestVectorBlobRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vecs := [][]float32{
		{0.25, -1.5, 3.75},
		{1e-8, 42.0, -0.001},
	}
	path := filepath.Join(dir, "index.bin")

	ix, err := New(3, "text-embedding-3-small")
	require.NoError(t, err)
	for _, v := range vecs {
		require.NoError(t, ix.Add(v))
	}
	require.NoError(t, ix.WriteFile(path))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Dim())
	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, "text-embedding-3-small", loaded.Model())

	// Loaded vectors must search identically to the originals.
	hits, err := loaded.Search(vecs[1], 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Slot)
	assert.Equal(t, float32(0), hits[0].Distance)
}

func TestMappingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")
	m := Mapping{Model: "m1", IDs: []string{"a", "b", "c"}}
	require.NoError(t, m.WriteFile(path))

	got, err := ReadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestWriteFileLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	vectorPath, mappingPath := writePair(t, dir, "m1",
		[][]float32{{1, 2}}, []string{"a"})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	_ = vectorPath
	_ = mappingPath
}

func TestWriteFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")

	first, err := New(2, "m1")
	require.NoError(t, err)
	require.NoError(t, first.Add([]float32{1, 1}))
	require.NoError(t, first.WriteFile(path))

	second, err := New(2, "m1")
	require.NoError(t, err)
	require.NoError(t, second.Add([]float32{2, 2}))
	require.NoError(t, second.Add([]float32{3, 3}))
	require.NoError(t, second.WriteFile(path))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
}

func TestLoadArtifacts(t *testing.T) {
	dir := t.TempDir()
	vectorPath, mappingPath := writePair(t, dir, "m1",
		[][]float32{{1, 2}, {3, 4}}, []string{"a", "b"})

	ix, m, err := LoadArtifacts(vectorPath, mappingPath, "m1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"a", "b"}, m.IDs)
}

func TestLoadArtifactsModelMismatch(t *testing.T) {
	dir := t.TempDir()
	vectorPath, mappingPath := writePair(t, dir, "old-model",
		[][]float32{{1, 2}}, []string{"a"})

	_, _, err := LoadArtifacts(vectorPath, mappingPath, "new-model", 2)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestLoadArtifactsCountMismatch(t *testing.T) {
	dir := t.TempDir()
	vectorPath, mappingPath := writePair(t, dir, "m1",
		[][]float32{{1, 2}, {3, 4}}, []string{"a"})

	_, _, err := LoadArtifacts(vectorPath, mappingPath, "m1", 2)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestLoadArtifactsDimMismatch(t *testing.T) {
	dir := t.TempDir()
	vectorPath, mappingPath := writePair(t, dir, "m1",
		[][]float32{{1, 2}}, []string{"a"})

	_, _, err := LoadArtifacts(vectorPath, mappingPath, "m1", 768)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestLoadArtifactsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, _, err := LoadArtifacts(
		filepath.Join(dir, "missing.bin"), filepath.Join(dir, "missing.json"), "m1", 2)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestReadFileRejectsForeignData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.bin")
	require.NoError(t, os.WriteFile(path, []byte("not an index"), 0o644))

	_, err := ReadFile(path)
	assert.Error(t, err)
}
