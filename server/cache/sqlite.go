package cache

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
)

// SQLiteStore persists cached automata across server restarts in a single
// table keyed by (formula_text, var_order).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) an automaton cache database
// in storageDir.
func NewSQLiteStore(storageDir string) (*SQLiteStore, error) {
	file := filepath.Join(storageDir, "automaton_cache.db")

	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st := &SQLiteStore{db: db}
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS automaton_cache (
		formula_text TEXT NOT NULL,
		var_order TEXT NOT NULL,
		encoded TEXT NOT NULL,
		PRIMARY KEY (formula_text, var_order)
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key Key) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT encoded FROM automaton_cache WHERE formula_text = ? AND var_order = ?;`,
		key.FormulaText, strings.Join(key.Order, ","),
	)

	var encodedB64 string
	if err := row.Scan(&encodedB64); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err)
	}

	data, err := base64.StdEncoding.DecodeString(encodedB64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cache row: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key Key, encoded []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO automaton_cache (formula_text, var_order, encoded) VALUES (?, ?, ?)
		 ON CONFLICT(formula_text, var_order) DO UPDATE SET encoded = excluded.encoded;`,
		key.FormulaText, strings.Join(key.Order, ","), base64.StdEncoding.EncodeToString(encoded),
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return err
}
