package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/cfgkit/internal/logger"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// maxSiblings bounds the search for a free sibling name.
const maxSiblings = 1000

// BackupSuffix is appended to the file name of the pre-save copy.
const BackupSuffix = ".bak"

// FileStore reads and replaces a file on disk.
type FileStore struct {
	Path string

	// Backup copies the original to Path+BackupSuffix before the first
	// Replace of this store.
	Backup bool

	backedUp bool
}

// Read returns the file content. A missing file is ErrFileNotFound.
func (s *FileStore) Read() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, types.ErrFileNotFound.Errorf("%s does not exist", s.Path).Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}

// Replace writes data to a sibling name that does not exist yet, then
// removes the original and renames the sibling into its place.
func (s *FileStore) Replace(data []byte) error {
	perm := fs.FileMode(0644)
	if st, err := os.Stat(s.Path); err == nil {
		perm = st.Mode().Perm()
		if s.Backup && !s.backedUp {
			if err := s.backup(perm); err != nil {
				return err
			}
		}
	}

	tmpFile, tmpPath, err := createSibling(s.Path, perm)
	if err != nil {
		return err
	}

	// Clean up the sibling on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		return fmt.Errorf("write %s: %w", tmpPath, writeErr)
	}
	if syncErr := tmpFile.Sync(); syncErr != nil {
		return fmt.Errorf("sync %s: %w", tmpPath, syncErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close %s: %w", tmpPath, closeErr)
	}
	tmpFile = nil // Don't clean up in defer

	if rmErr := os.Remove(s.Path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("remove %s: %w", s.Path, rmErr)
	}
	if renameErr := os.Rename(tmpPath, s.Path); renameErr != nil {
		return fmt.Errorf("rename %s: %w", tmpPath, renameErr)
	}
	logger.L.Debug("file replaced", "path", s.Path, "bytes", len(data))
	return nil
}

func (s *FileStore) backup(perm fs.FileMode) error {
	orig, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("backup %s: %w", s.Path, err)
	}
	dst := s.Path + BackupSuffix
	if err := os.WriteFile(dst, orig, perm); err != nil {
		return fmt.Errorf("backup %s: %w", s.Path, err)
	}
	s.backedUp = true
	logger.L.Debug("backup written", "path", dst)
	return nil
}

// SiblingName returns the n-th candidate name next to path:
// printer.cfg becomes printer.000.cfg, printer.001.cfg, ...
func SiblingName(path string, n int) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s.%03d%s", stem, n, ext))
}

// createSibling exclusively creates the first free sibling name.
func createSibling(path string, perm fs.FileMode) (*os.File, string, error) {
	for n := 0; n < maxSiblings; n++ {
		name := SiblingName(path, n)
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("create %s: %w", name, err)
		}
		return f, name, nil
	}
	return nil, "", fmt.Errorf("no free sibling name for %s", path)
}
