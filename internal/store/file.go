package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileStore persists one file per key under a base directory. It is the
// default backend for a single-profile companion process.
type FileStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewFileStore ensures the base directory exists and returns a handle.
func NewFileStore(baseDir string, logger *zap.Logger) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./cache"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &FileStore{baseDir: baseDir, logger: logger}, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cache file read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return string(data), true
}

func (s *FileStore) Set(key, value string) error {
	if err := os.WriteFile(s.resolve(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache entry %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys(prefix string) []string {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		s.logger.Warn("cache directory scan failed", zap.Error(err))
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key := keyFromFilename(e.Name())
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

func (s *FileStore) Clear() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("scan cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.baseDir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clear cache entry %s: %w", e.Name(), err)
		}
	}
	return nil
}

func (s *FileStore) resolve(key string) string {
	return filepath.Join(s.baseDir, filenameFromKey(key))
}

// Keys are dominated by ids joined with underscores, but sanitise anything
// that would escape the base directory.
func filenameFromKey(key string) string {
	replaced := strings.NewReplacer("/", "%2F", "\\", "%5C", "..", "%2E%2E").Replace(key)
	return replaced + ".json"
}

func keyFromFilename(name string) string {
	key := strings.TrimSuffix(name, ".json")
	return strings.NewReplacer("%2F", "/", "%5C", "\\", "%2E%2E", "..").Replace(key)
}
