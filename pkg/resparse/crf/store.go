package crf

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
)

// formatVersion is bumped whenever the model file layout changes.
const formatVersion = 1

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE labels (
	idx INTEGER PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	start_weight REAL NOT NULL
);

CREATE TABLE transitions (
	from_idx INTEGER NOT NULL,
	to_idx INTEGER NOT NULL,
	weight REAL NOT NULL,
	PRIMARY KEY(from_idx, to_idx),
	FOREIGN KEY(from_idx) REFERENCES labels(idx),
	FOREIGN KEY(to_idx) REFERENCES labels(idx)
);

CREATE TABLE state_features (
	attribute TEXT NOT NULL,
	label_idx INTEGER NOT NULL,
	weight REAL NOT NULL,
	PRIMARY KEY(attribute, label_idx),
	FOREIGN KEY(label_idx) REFERENCES labels(idx)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save writes the model to a fresh SQLite file at path, replacing any
// existing file. A model without an ID is stamped with a new ULID and the
// current time first.
func (m *Model) Save(ctx context.Context, path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace model file: %w", err)
	}
	db, err := openDB(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := initSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	meta := map[string]string{
		"id":             m.ID,
		"section":        m.Section,
		"created_at":     m.CreatedAt.UTC().Format(time.RFC3339),
		"format_version": strconv.Itoa(formatVersion),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("write meta %s: %w", k, err)
		}
	}

	for i, name := range m.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO labels (idx, name, start_weight) VALUES (?, ?, ?)`, i, name, m.Start[i]); err != nil {
			return fmt.Errorf("write label %s: %w", name, err)
		}
	}

	transStmt, err := tx.PrepareContext(ctx, `INSERT INTO transitions (from_idx, to_idx, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer transStmt.Close()
	for from, row := range m.Transitions {
		for to, w := range row {
			if w == 0 {
				continue
			}
			if _, err := transStmt.ExecContext(ctx, from, to, w); err != nil {
				return fmt.Errorf("write transition: %w", err)
			}
		}
	}

	stateStmt, err := tx.PrepareContext(ctx, `INSERT INTO state_features (attribute, label_idx, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stateStmt.Close()
	for name, ws := range m.State {
		for y, w := range ws {
			if w == 0 {
				continue
			}
			if _, err := stateStmt.ExecContext(ctx, name, y, w); err != nil {
				return fmt.Errorf("write state feature %s: %w", name, err)
			}
		}
	}

	return tx.Commit()
}

// Open loads a model file fully into memory. A missing file yields an
// error matching fs.ErrNotExist; a malformed one, ErrInvalidModel.
func Open(ctx context.Context, path string) (*Model, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidModel, path, err)
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidModel, path, err)
	}
	if meta["format_version"] != strconv.Itoa(formatVersion) {
		return nil, fmt.Errorf("%w: %s: unsupported format version %q", internalerr.ErrInvalidModel, path, meta["format_version"])
	}

	m := &Model{ID: meta["id"], Section: meta["section"], State: make(map[string][]float64)}
	if ts, ok := meta["created_at"]; ok {
		m.CreatedAt, _ = time.Parse(time.RFC3339, ts)
	}

	if err := readLabels(ctx, db, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidModel, path, err)
	}
	if err := readWeights(ctx, db, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidModel, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func readLabels(ctx context.Context, db *sql.DB, m *Model) error {
	rows, err := db.QueryContext(ctx, `SELECT idx, name, start_weight FROM labels ORDER BY idx`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx   int
			name  string
			start float64
		)
		if err := rows.Scan(&idx, &name, &start); err != nil {
			return err
		}
		if idx != len(m.Labels) {
			return fmt.Errorf("label indices not contiguous at %d", idx)
		}
		m.Labels = append(m.Labels, name)
		m.Start = append(m.Start, start)
	}
	return rows.Err()
}

func readWeights(ctx context.Context, db *sql.DB, m *Model) error {
	L := len(m.Labels)
	m.Transitions = make([][]float64, L)
	for i := range m.Transitions {
		m.Transitions[i] = make([]float64, L)
	}

	rows, err := db.QueryContext(ctx, `SELECT from_idx, to_idx, weight FROM transitions`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var from, to int
		var w float64
		if err := rows.Scan(&from, &to, &w); err != nil {
			rows.Close()
			return err
		}
		if from < 0 || from >= L || to < 0 || to >= L {
			rows.Close()
			return fmt.Errorf("transition %d->%d out of range", from, to)
		}
		m.Transitions[from][to] = w
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = db.QueryContext(ctx, `SELECT attribute, label_idx, weight FROM state_features`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var y int
		var w float64
		if err := rows.Scan(&name, &y, &w); err != nil {
			return err
		}
		if y < 0 || y >= L {
			return fmt.Errorf("state feature %q label %d out of range", name, y)
		}
		ws, ok := m.State[name]
		if !ok {
			ws = make([]float64, L)
			m.State[name] = ws
		}
		ws[y] = w
	}
	return rows.Err()
}
