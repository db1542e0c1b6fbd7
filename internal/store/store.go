// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrCategoryNotFound is returned when a category lookup has no match.
var ErrCategoryNotFound = errors.New("category not found")

// Store wraps SQLite access for vocabulary data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			last_studied_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS vocabs (
			id INTEGER PRIMARY KEY,
			category_id INTEGER NOT NULL REFERENCES categories(id),
			word TEXT NOT NULL,
			meaning TEXT NOT NULL,
			status INTEGER NOT NULL,
			position INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_vocabs_category ON vocabs(category_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureCategory returns the id of the named category, creating it if needed.
func (s *Store) EnsureCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("category name is empty")
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, err
	}
	cat, err := s.CategoryByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return cat.ID, nil
}

// CategoryByName looks up a category by exact name.
func (s *Store) CategoryByName(ctx context.Context, name string) (model.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, last_studied_at FROM categories WHERE name = ?`, strings.TrimSpace(name))
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return cat, err
}

// ListCategories returns category summaries ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]model.CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.last_studied_at, COUNT(v.id)
		 FROM categories c
		 LEFT JOIN vocabs v ON v.category_id = c.id
		 GROUP BY c.id
		 ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CategorySummary
	for rows.Next() {
		var summary model.CategorySummary
		var studied sql.NullString
		if err := rows.Scan(&summary.Category.ID, &summary.Category.Name, &studied, &summary.VocabCount); err != nil {
			return nil, err
		}
		if summary.Category.LastStudiedAt, err = parseStudied(studied); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// InsertVocabs appends vocabs to a category, keeping their order.
func (s *Store) InsertVocabs(ctx context.Context, categoryID int64, vocabs []model.Vocab) (err error) {
	if len(vocabs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var next int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM vocabs WHERE category_id = ?`, categoryID).Scan(&next); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vocabs (category_id, word, meaning, status, position) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, v := range vocabs {
		status := v.Status
		if status == model.StatusAll {
			status = model.StatusNew
		}
		if _, err = stmt.ExecContext(ctx, categoryID, v.Word, v.Meaning, int(status), next+int64(i)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListVocabs returns a category's vocabs in insertion order. StatusAll
// disables the status filter.
func (s *Store) ListVocabs(ctx context.Context, categoryID int64, status model.VocabStatus) ([]model.Vocab, error) {
	clauses := []string{"category_id = ?"}
	args := []any{categoryID}
	if status != model.StatusAll {
		clauses = append(clauses, "status = ?")
		args = append(args, int(status))
	}
	query := fmt.Sprintf(`SELECT id, category_id, word, meaning, status
		FROM vocabs
		WHERE %s
		ORDER BY position ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var vocabs []model.Vocab
	for rows.Next() {
		var v model.Vocab
		var status int
		if err := rows.Scan(&v.ID, &v.CategoryID, &v.Word, &v.Meaning, &status); err != nil {
			return nil, err
		}
		v.Status = model.VocabStatus(status)
		vocabs = append(vocabs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vocabs, nil
}

// RecordStudy stores the time a category was last studied.
func (s *Store) RecordStudy(ctx context.Context, categoryID int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET last_studied_at = ? WHERE id = ?`,
		at.Format(time.RFC3339Nano), categoryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrCategoryNotFound, categoryID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (model.Category, error) {
	var cat model.Category
	var studied sql.NullString
	if err := row.Scan(&cat.ID, &cat.Name, &studied); err != nil {
		return model.Category{}, err
	}
	parsed, err := parseStudied(studied)
	if err != nil {
		return model.Category{}, err
	}
	cat.LastStudiedAt = parsed
	return cat, nil
}

func parseStudied(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
