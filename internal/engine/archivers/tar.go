// Package archivers provides archive writers for bundled output.
package archivers

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/msds-io/msds/internal/engine"
)

// CompressionType defines supported compression algorithms.
type CompressionType string

const (
	CompressionGzip CompressionType = "gzip"
	CompressionZstd CompressionType = "zstd"
	CompressionNone CompressionType = "none"
)

// TarArchiver buffers files into a tar archive with optional compression.
type TarArchiver struct {
	buf         *bytes.Buffer
	compressor  io.WriteCloser
	tarWriter   *tar.Writer
	compression CompressionType
	closed      bool
}

// NewTarArchiver creates a tar archiver. Supported compression types are
// "gzip", "zstd" and "none"; empty defaults to gzip.
func NewTarArchiver(compression string) (*TarArchiver, error) {
	ct := CompressionType(compression)
	if ct == "" {
		ct = CompressionGzip
	}

	buf := new(bytes.Buffer)

	var compressor io.WriteCloser
	switch ct {
	case CompressionGzip:
		compressor = gzip.NewWriter(buf)
	case CompressionZstd:
		zw, err := zstd.NewWriter(buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		compressor = zw
	case CompressionNone:
		compressor = &nopWriteCloser{buf}
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", compression)
	}

	return &TarArchiver{
		buf:         buf,
		compressor:  compressor,
		tarWriter:   tar.NewWriter(compressor),
		compression: ct,
	}, nil
}

// AddFile adds a file to the tar archive.
func (a *TarArchiver) AddFile(ctx context.Context, filename string, data io.Reader) error {
	if a.closed {
		return fmt.Errorf("archiver is closed")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	// Tar headers need the size up front
	content, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read file data: %w", err)
	}

	header := &tar.Header{
		Name: filename,
		Mode: 0644,
		Size: int64(len(content)),
	}

	if err := a.tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}

	if _, err := a.tarWriter.Write(content); err != nil {
		return fmt.Errorf("failed to write tar content: %w", err)
	}

	return nil
}

// Close finalizes the archive and returns a reader for the complete archive data.
func (a *TarArchiver) Close() (io.Reader, error) {
	if a.closed {
		return nil, fmt.Errorf("archiver already closed")
	}
	a.closed = true

	if err := a.tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close tar writer: %w", err)
	}

	if err := a.compressor.Close(); err != nil {
		return nil, fmt.Errorf("failed to close compressor: %w", err)
	}

	return bytes.NewReader(a.buf.Bytes()), nil
}

// Extension returns the file extension for this archive type.
func (a *TarArchiver) Extension() string {
	switch a.compression {
	case CompressionGzip:
		return ".tar.gz"
	case CompressionZstd:
		return ".tar.zst"
	default:
		return ".tar"
	}
}

var _ engine.Archiver = (*TarArchiver)(nil)

type nopWriteCloser struct {
	io.Writer
}

func (n *nopWriteCloser) Close() error {
	return nil
}
