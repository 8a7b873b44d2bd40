package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "fwlint-tmp-"
)

// WriteAtomic streams the output of render into filename through a temp file
// in the same directory, then renames it over the target. Readers never see a
// partial report, and a render error leaves an existing file untouched.
//
// perm applies to new files; an existing file keeps its mode.
func WriteAtomic(filename string, perm os.FileMode, render func(io.Writer) error) error {
	if info, err := os.Stat(filename); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", filename)
		}
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // no-op once renamed

	w := bufio.NewWriter(tmpFile)
	if err := render(w); err != nil {
		tmpFile.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
