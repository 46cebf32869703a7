package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subfetch/internal/fileutil"
)

// DirSaver writes subtitle payloads into a fixed directory using the
// temp-then-rename discipline, so a cancelled or failed download never
// leaves a truncated file behind. Existing files are kept; colliding
// names get a numeric suffix.
type DirSaver struct {
	Dir string
}

// NewDirSaver validates dir and returns a DirSaver for it.
func NewDirSaver(dir string) (*DirSaver, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("save directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure save directory: %w", err)
	}
	return &DirSaver{Dir: dir}, nil
}

// Save implements Saver.
func (s *DirSaver) Save(data []byte, filename string) (string, error) {
	if s == nil {
		return "", errors.New("saver unavailable")
	}
	if strings.TrimSpace(filename) == "" {
		return "", errors.New("subtitle filename is empty")
	}
	target, err := fileutil.UniquePath(filepath.Join(s.Dir, filepath.Base(filename)))
	if err != nil {
		return "", err
	}
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}
