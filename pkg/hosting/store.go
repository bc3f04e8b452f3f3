package hosting

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"media-courier-be/internal/pkg/logger"
)

var (
	ErrNotFound  = errors.New("hosted file not found")
	ErrInvalidId = errors.New("invalid file id")
)

// Store keeps published files on local disk under opaque ids with a fixed
// lifetime. Files surviving a process restart are swept on startup, since
// their expiry timers died with the old process.
type Store struct {
	dir     string
	baseURL string
	ttl     time.Duration
	log     logger.ILogger
}

func NewStore(dir, baseURL string, ttl time.Duration, log logger.ILogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create hosting dir: %w", err)
	}
	s := &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), ttl: ttl, log: log}
	s.Clear()
	return s, nil
}

// Publish moves the file into the store under a fresh id and schedules its
// removal after the TTL. The source path is consumed on success.
func (s *Store) Publish(path string) (fileId string, err error) {
	fileId = uuid.NewString()
	dest := filepath.Join(s.dir, fileId+".mp4")

	if err := os.Rename(path, dest); err != nil {
		// Rename fails across filesystems; fall back to a copy.
		if copyErr := copyFile(path, dest); copyErr != nil {
			return "", fmt.Errorf("publish %s: %w", path, copyErr)
		}
		_ = os.Remove(path)
	}

	time.AfterFunc(s.ttl, func() {
		if removeErr := os.Remove(dest); removeErr != nil && !os.IsNotExist(removeErr) {
			s.log.Warn("hosting", "failed to remove expired file", map[string]interface{}{
				"file_id": fileId,
				"error":   removeErr.Error(),
			})
		}
	})
	return fileId, nil
}

// URL returns the public download link for a published id.
func (s *Store) URL(fileId string) string {
	return s.baseURL + "/download/" + fileId
}

// Resolve maps a file id back to its on-disk path. Ids are validated before
// touching the filesystem so request input can never traverse out of the
// store directory.
func (s *Store) Resolve(fileId string) (string, error) {
	if !validId(fileId) {
		return "", ErrInvalidId
	}
	path := filepath.Join(s.dir, fileId+".mp4")
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// Clear removes every file in the store directory.
func (s *Store) Clear() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			_ = os.Remove(filepath.Join(s.dir, e.Name()))
		}
	}
}

func validId(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
