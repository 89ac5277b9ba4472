package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Postgres driver for a shared progress service.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the database handle and the ent SQL driver used to build and
// run queries.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
	seq     *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
func Open(dsn string) (*Store, error) {
	return OpenDriver(DriverSQLite, dsn)
}

// OpenDriver connects to dsn with the named driver ("sqlite" or
// "postgres"), applies SQLite pragmas where relevant, and creates the schema.
func OpenDriver(driver, dsn string) (*Store, error) {
	var d string
	switch driver {
	case DriverSQLite, "":
		driver, d = DriverSQLite, dialect.SQLite
	case DriverPostgres:
		d = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if d == dialect.SQLite {
		// One connection serializes writers from concurrent sink goroutines.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	s := &Store{db: db, drv: entsql.OpenDB(d, db), dialect: d}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.seq = seq
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the connection.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// ProgressRepo returns a ProgressRepo backed by this store.
func (s *Store) ProgressRepo() ProgressRepo {
	return &progressRepo{s: s}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{s: s}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

func (s *Store) migrate(ctx context.Context) error {
	autoID := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == dialect.Postgres {
		autoID = "BIGSERIAL PRIMARY KEY"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS progress (
			user_id TEXT NOT NULL,
			grade TEXT NOT NULL,
			skill_id TEXT NOT NULL,
			current_score INTEGER NOT NULL,
			total_answered INTEGER NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (user_id, grade, skill_id)
		)`,
		`CREATE TABLE IF NOT EXISTS score_history (
			id ` + autoID + `,
			sequence BIGINT NOT NULL,
			user_id TEXT NOT NULL,
			grade TEXT NOT NULL,
			skill_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			answered_count INTEGER NOT NULL,
			correct BOOLEAN NOT NULL,
			recorded_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS score_history_skill ON score_history (user_id, grade, skill_id, sequence)`,
		`CREATE TABLE IF NOT EXISTS session_events (
			id ` + autoID + `,
			sequence BIGINT NOT NULL,
			session_id TEXT NOT NULL,
			action TEXT NOT NULL,
			user_id TEXT NOT NULL,
			grade TEXT NOT NULL,
			skill_id TEXT NOT NULL,
			questions INTEGER NOT NULL,
			answered INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			final_score INTEGER NOT NULL,
			best_streak INTEGER NOT NULL,
			duration_secs INTEGER NOT NULL,
			recorded_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS session_events_user ON session_events (user_id, sequence)`,
	}
	for _, stmt := range stmts {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MATHDRILL_DB environment variable
// 2. $XDG_DATA_HOME/mathdrill/mathdrill.db
// 3. ~/.local/share/mathdrill/mathdrill.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MATHDRILL_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mathdrill", "mathdrill.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
