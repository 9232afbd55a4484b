package archivers

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTar(t *testing.T, r io.Reader) map[string]string {
	t.Helper()
	tr := tar.NewReader(r)
	found := make(map[string]string)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		found[h.Name] = string(content)
	}
	return found
}

func TestTarArchiver_Gzip(t *testing.T) {
	archiver, err := NewTarArchiver("gzip")
	require.NoError(t, err)
	assert.Equal(t, ".tar.gz", archiver.Extension())

	require.NoError(t, archiver.AddFile(t.Context(), "a.json", strings.NewReader(`{"a":1}`)))
	require.NoError(t, archiver.AddFile(t.Context(), "b.json", strings.NewReader(`{"b":2}`)))

	reader, err := archiver.Close()
	require.NoError(t, err)

	gr, err := gzip.NewReader(reader)
	require.NoError(t, err)
	defer gr.Close()

	found := readTar(t, gr)
	assert.Equal(t, map[string]string{"a.json": `{"a":1}`, "b.json": `{"b":2}`}, found)
}

func TestTarArchiver_Zstd(t *testing.T) {
	archiver, err := NewTarArchiver("zstd")
	require.NoError(t, err)
	assert.Equal(t, ".tar.zst", archiver.Extension())

	require.NoError(t, archiver.AddFile(t.Context(), "data.json", strings.NewReader(`{"zstd":true}`)))

	reader, err := archiver.Close()
	require.NoError(t, err)

	zr, err := zstd.NewReader(reader)
	require.NoError(t, err)
	defer zr.Close()

	found := readTar(t, zr)
	assert.Equal(t, map[string]string{"data.json": `{"zstd":true}`}, found)
}

func TestTarArchiver_None(t *testing.T) {
	archiver, err := NewTarArchiver("none")
	require.NoError(t, err)
	assert.Equal(t, ".tar", archiver.Extension())

	require.NoError(t, archiver.AddFile(t.Context(), "plain.txt", strings.NewReader("plain")))

	reader, err := archiver.Close()
	require.NoError(t, err)

	found := readTar(t, reader)
	assert.Equal(t, map[string]string{"plain.txt": "plain"}, found)
}

func TestTarArchiver_DefaultsToGzip(t *testing.T) {
	archiver, err := NewTarArchiver("")
	require.NoError(t, err)
	assert.Equal(t, ".tar.gz", archiver.Extension())
}

func TestTarArchiver_UnsupportedCompression(t *testing.T) {
	_, err := NewTarArchiver("lzma")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported compression type: lzma")
}

func TestTarArchiver_UseAfterClose(t *testing.T) {
	archiver, err := NewTarArchiver("none")
	require.NoError(t, err)

	_, err = archiver.Close()
	require.NoError(t, err)

	err = archiver.AddFile(t.Context(), "late.txt", bytes.NewReader(nil))
	require.Error(t, err)
	assert.ErrorContains(t, err, "archiver is closed")

	_, err = archiver.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, "already closed")
}
