package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Store is the durable key/value contract used for the dashboard's local storage.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// dialect holds the statements that differ between SQL engines.
type dialect struct {
	name   string
	schema string
	upsert string
}

var (
	sqliteDialect = dialect{
		name: "sqlite",
		schema: `CREATE TABLE IF NOT EXISTS local_storage (
        item_key TEXT PRIMARY KEY,
        item_value TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );`,
		upsert: `INSERT INTO local_storage(item_key, item_value, updated_at) VALUES(?,?,?)
        ON CONFLICT(item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
	}

	mysqlDialect = dialect{
		name: "mysql",
		schema: `CREATE TABLE IF NOT EXISTS local_storage (
        item_key VARCHAR(191) PRIMARY KEY,
        item_value MEDIUMTEXT NOT NULL,
        updated_at VARCHAR(32) NOT NULL
    )`,
		upsert: `INSERT INTO local_storage(item_key, item_value, updated_at) VALUES(?,?,?)
        ON DUPLICATE KEY UPDATE item_value = VALUES(item_value), updated_at = VALUES(updated_at)`,
	}
)

// SQLStore implements Store on top of database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLite opens (or creates) the SQLite database at path and applies the schema.
// It uses the pure Go driver modernc.org/sqlite.
func NewSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Best effort; a rollback journal also works.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("WARN: could not set WAL mode:", err)
	}

	return newSQLStore(db, sqliteDialect)
}

// NewMySQL connects to MySQL with the given DSN
// (e.g. "user:pass@tcp(localhost:3306)/dashboard") and applies the schema.
func NewMySQL(dsn string) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return newSQLStore(db, mysqlDialect)
}

func newSQLStore(db *sql.DB, d dialect) (*SQLStore, error) {
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply %s schema: %w", d.name, err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT item_value FROM local_storage WHERE item_key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, string(value), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Open returns the Store selected by driver ("sqlite", "mysql" or "memory").
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(dsn)
	case "mysql":
		return NewMySQL(dsn)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
