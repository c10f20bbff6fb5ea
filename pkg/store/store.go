// Package store keeps named Fython programs in a SQLite database.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
	"github.com/charon25/FythonProgrammingLanguage/pkg/deltafile"
)

var log = commonlog.GetLogger("fython.store")

// ErrNotFound indicates the requested program doesn't exist.
var ErrNotFound = errors.New("program not found")

const schema = `CREATE TABLE IF NOT EXISTS programs (
	name       TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	hash       TEXT NOT NULL,
	deltas     BLOB NOT NULL,
	created_at INTEGER NOT NULL
)`

// Program is a stored delta stream.
type Program struct {
	Name      string
	ID        uuid.UUID
	Hash      string // sha256 of the CBOR encoding, hex
	Deltas    []bytecode.Delta
	CreatedAt time.Time
}

// Store is a handle on the program database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Hash returns the content hash of a delta stream.
func Hash(deltas []bytecode.Delta) (string, error) {
	data, err := deltafile.Marshal(deltas)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Put saves deltas under name, replacing any program already there.
func (s *Store) Put(ctx context.Context, name string, deltas []bytecode.Delta) (*Program, error) {
	if name == "" {
		return nil, fmt.Errorf("saving program: empty name")
	}
	data, err := deltafile.Marshal(deltas)
	if err != nil {
		return nil, fmt.Errorf("encoding program %s: %w", name, err)
	}
	sum := sha256.Sum256(data)

	p := &Program{
		Name:      name,
		ID:        uuid.New(),
		Hash:      hex.EncodeToString(sum[:]),
		Deltas:    deltas,
		CreatedAt: time.Now().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO programs (name, id, hash, deltas, created_at) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.ID.String(), p.Hash, data, p.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("saving program %s: %w", name, err)
	}
	log.Infof("stored %s (%d deltas, %s)", name, len(deltas), p.Hash[:12])
	return p, nil
}

// Get loads the program stored under name.
func (s *Store) Get(ctx context.Context, name string) (*Program, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT name, id, hash, deltas, created_at FROM programs WHERE name = ?", name)

	var (
		p       Program
		id      string
		data    []byte
		created int64
	)
	if err := row.Scan(&p.Name, &id, &p.Hash, &data, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("querying program %s: %w", name, err)
	}
	return decode(&p, id, data, created)
}

// List returns every stored program ordered by name.
func (s *Store) List(ctx context.Context) ([]*Program, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, id, hash, deltas, created_at FROM programs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var programs []*Program
	for rows.Next() {
		var (
			p       Program
			id      string
			data    []byte
			created int64
		)
		if err := rows.Scan(&p.Name, &id, &p.Hash, &data, &created); err != nil {
			return nil, fmt.Errorf("listing programs: %w", err)
		}
		prog, err := decode(&p, id, data, created)
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	return programs, nil
}

// Delete removes the program stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM programs WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting program %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting program %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	log.Infof("deleted %s", name)
	return nil
}

func decode(p *Program, id string, data []byte, created int64) (*Program, error) {
	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("program %s: bad id: %w", p.Name, err)
	}
	if p.Deltas, err = deltafile.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("program %s: %w", p.Name, err)
	}
	p.CreatedAt = time.Unix(created, 0)
	return p, nil
}
