package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS companion_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLStore keeps cache entries in a single key/value table, for deployments
// that already run Postgres and want the cache inspectable with plain SQL.
type SQLStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLStore ensures the kv table exists and returns a handle.
func NewSQLStore(db *sqlx.DB, logger *zap.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.Exec(kvSchema); err != nil {
		return nil, fmt.Errorf("ensure kv table: %w", err)
	}
	return &SQLStore{db: db, logger: logger}, nil
}

func (s *SQLStore) Get(key string) (string, bool) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM companion_kv WHERE key = $1`, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("kv get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, true
}

func (s *SQLStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO companion_kv (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM companion_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("kv remove %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Keys(prefix string) []string {
	var keys []string
	err := s.db.Select(&keys, `SELECT key FROM companion_kv WHERE key LIKE $1 ORDER BY key`, prefix+"%")
	if err != nil {
		s.logger.Warn("kv keys failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	return keys
}

func (s *SQLStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM companion_kv`); err != nil {
		return fmt.Errorf("kv clear: %w", err)
	}
	return nil
}
