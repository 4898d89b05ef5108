package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	apperrors "marsphotos/pkg/errors"
)

const partialSuffix = ".part"

// FileNameFromURL derives the local file name from an image URL: everything
// after the final '/'.
func FileNameFromURL(rawURL string) (string, error) {
	name := rawURL[strings.LastIndex(rawURL, "/")+1:]
	switch name {
	case "":
		return "", fmt.Errorf("url %q has no file name after its last '/'", rawURL)
	case ".", "..":
		return "", fmt.Errorf("url %q ends in a relative path element", rawURL)
	}
	return name, nil
}

// Manager owns the photo directory. The filesystem is the only record of
// what has been downloaded.
type Manager struct {
	dir string
}

// NewManager creates the directory if needed and returns a manager for it
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.Storage(fmt.Sprintf("failed to create photo directory %s", dir), err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the photo directory path
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the final location of name inside the photo directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// Exists reports whether a file is already stored under name
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}

// Save streams r into name. Data goes to a uniquely named temporary file in
// the same directory which is synced and then renamed, so name never holds a
// partial file and concurrent writers of the same name cannot interleave.
func (m *Manager) Save(r io.Reader, name string) (int64, error) {
	final := m.Path(name)
	tempPath := filepath.Join(m.dir, fmt.Sprintf(".%s.%s%s", name, uuid.NewString(), partialSuffix))

	out, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, apperrors.Storage("failed to create temporary file", err)
	}

	written, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		os.Remove(tempPath)
		return written, apperrors.Storage(fmt.Sprintf("failed to write %s", name), err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tempPath)
		return written, apperrors.Storage(fmt.Sprintf("failed to sync %s", name), err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return written, apperrors.Storage(fmt.Sprintf("failed to close %s", name), err)
	}

	if err := os.Rename(tempPath, final); err != nil {
		os.Remove(tempPath)
		return written, apperrors.Storage(fmt.Sprintf("failed to rename temporary file onto %s", name), err)
	}

	return written, nil
}

// WriteFile atomically stores data under name
func (m *Manager) WriteFile(name string, data []byte) error {
	_, err := m.Save(bytes.NewReader(data), name)
	return err
}

// CleanupPartials removes temporary files left behind by an interrupted run
func (m *Manager) CleanupPartials() (int, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, apperrors.Storage("failed to read photo directory", err)
	}

	removed := 0
	var errs []error
	for _, entry := range entries {
		if !isPartial(entry) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	if len(errs) > 0 {
		return removed, apperrors.Storage("failed to remove some temporary files", errors.Join(errs...))
	}
	return removed, nil
}

func isPartial(entry fs.DirEntry) bool {
	name := entry.Name()
	return !entry.IsDir() && strings.HasPrefix(name, ".") && strings.HasSuffix(name, partialSuffix)
}
