// Package workspace manages the on-disk directory layout that a run
// operates against.
package workspace

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const DefaultAssetsDir = "assets"

// Layout names the directories a run expects relative to the working
// directory.
type Layout struct {
	InputDir  string
	OutputDir string
	AssetsDir string
}

// NewLayout builds a Layout from the configured input and output
// directories. Assets always live in DefaultAssetsDir.
func NewLayout(inputDir, outputDir string) Layout {
	return Layout{
		InputDir:  inputDir,
		OutputDir: outputDir,
		AssetsDir: DefaultAssetsDir,
	}
}

// Ensure creates the input and output directories when they are
// missing. The assets directory is never created, it ships with the
// project.
func (l Layout) Ensure(fs afero.Fs) error {
	for _, dir := range []string{l.InputDir, l.OutputDir} {
		if err := fs.MkdirAll(dir, os.FileMode(0o755)); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	return nil
}

// Verify checks that every directory in the layout exists and reports
// all missing ones at once.
func (l Layout) Verify(fs afero.Fs) error {
	var errs []error

	for _, dir := range []string{l.InputDir, l.OutputDir, l.AssetsDir} {
		exists, err := afero.DirExists(fs, dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to check directory '%s': %w", dir, err))
			continue
		}
		if !exists {
			errs = append(errs, fmt.Errorf("directory '%s' is missing", dir))
		}
	}

	return errors.Join(errs...)
}
