// Package file provides a data source rooted at a local directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	SourceKind   = "file"
	ScanStepKind = "file_scan"
	ReadStepKind = "file_read"
)

type Config struct {
	// Root is the directory the source reads from. Relative paths are
	// resolved against the working directory.
	Root string
}

// Source exposes the files under a root directory. All reads go through an
// afero BasePathFs so steps cannot escape the root.
type Source struct {
	root string
	fs   afero.Fs
}

type SourceOption func(*Source)

// WithFs overrides the filesystem the source reads from. Used in tests.
func WithFs(fs afero.Fs) SourceOption {
	return func(s *Source) {
		s.fs = fs
	}
}

func NewSource(cfg Config, opts ...SourceOption) (*Source, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("root is required")
	}

	root := cfg.Root
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = filepath.Join(cwd, root)
	}

	source := &Source{root: root}

	for _, opt := range opts {
		opt(source)
	}

	if source.fs == nil {
		source.fs = afero.NewBasePathFs(afero.NewOsFs(), root)
	}

	return source, nil
}

func (s *Source) Name() string {
	return fmt.Sprintf("%s(%s)", SourceKind, s.root)
}

func (s *Source) Kind() string {
	return SourceKind
}

// Start verifies the root directory exists.
func (s *Source) Start(ctx context.Context) error {
	exists, err := afero.DirExists(s.fs, ".")
	if err != nil {
		return fmt.Errorf("failed to stat root directory %s: %w", s.root, err)
	}
	if !exists {
		return fmt.Errorf("root directory %s does not exist", s.root)
	}
	return nil
}

func (s *Source) Close(ctx context.Context) error {
	return nil
}

func (s *Source) Fs() afero.Fs {
	return s.fs
}
