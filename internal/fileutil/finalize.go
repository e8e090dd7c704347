// Package fileutil provides atomic file replacement on an afero filesystem.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	ownerReadWrite = 0o600
	executableBits = 0o111
)

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	Fs      afero.Fs
	SrcInfo os.FileInfo
	IsExec  bool
	TmpFile afero.File
	TmpName string

	closed bool
}

// NewTempContext stats the source file and creates a temp file next to outPath.
// Caller must defer CleanupOnError.
func NewTempContext(fsys afero.Fs, filename, outPath string) (*TempContext, error) {
	info, err := fsys.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	tmpFile, err := afero.TempFile(fsys, filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		Fs:      fsys,
		SrcInfo: info,
		IsExec:  info.Mode()&executableBits != 0,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// Write writes data to the temp file, closes it and moves it over outPath.
// The executable bit of the source file is kept, and with preserveTimestamps its
// modification time too. Nothing is left at outPath if any step fails.
func (tc *TempContext) Write(data []byte, outPath string, preserveTimestamps bool) (int64, error) {
	n, err := tc.TmpFile.Write(data)
	if err != nil {
		return 0, fmt.Errorf("writing temporary file: %w", err)
	}

	perm := os.FileMode(ownerReadWrite)
	if tc.IsExec {
		perm |= executableBits
	}

	if err := tc.Fs.Chmod(tc.TmpName, perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	tc.closed = true

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	// Timestamps go on the temp file; the rename is the last fallible step.
	if preserveTimestamps {
		modTime := tc.SrcInfo.ModTime()
		if err := tc.Fs.Chtimes(tc.TmpName, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	if err := tc.Fs.Rename(tc.TmpName, outPath); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	return int64(n), nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	if !tc.closed {
		tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup
	}

	if *errp != nil {
		tc.Fs.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}
