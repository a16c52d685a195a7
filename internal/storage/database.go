package storage

import (
	"fmt"
	"io"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// Database is an opened database file: its header, the in-memory page store
// and the tables listed in the catalog.
type Database struct {
	Path    string
	Logger  *util.Logger
	Charset Charset
	store   *PageStore
	tables  []*Table
}

// Option configures Open and OpenReader.
type Option func(*Database)

func WithLogger(logger *util.Logger) Option {
	return func(db *Database) {
		db.Logger = logger
	}
}

// WithCharset sets the charset text columns are decoded with.
func WithCharset(cs Charset) Option {
	return func(db *Database) {
		db.Charset = cs
	}
}

// Open reads the database file at path, transparently decompressing xz,
// zstd and gzip copies.
func Open(path string, opts ...Option) (*Database, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	db, err := OpenReader(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.Path = path
	return db, nil
}

// OpenReader loads a database image from r.
func OpenReader(r io.Reader, opts ...Option) (*Database, error) {
	db := &Database{
		Charset: CharsetUTF8,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.Logger == nil {
		db.Logger = util.NewNopLogger()
	}

	store, err := LoadPageStore(r, db.Logger)
	if err != nil {
		return nil, err
	}
	db.store = store

	tables, err := discoverTables(store, db.Charset, db.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read table catalog: %w", err)
	}
	db.tables = tables

	db.Logger.Info("Found %d table(s)", len(tables))
	return db, nil
}

func (db *Database) Header() *DatabaseHeader {
	return db.store.Header()
}

func (db *Database) Store() *PageStore {
	return db.store
}

// Tables returns every table in catalog order.
func (db *Database) Tables() []*Table {
	return db.tables
}

// UserTables returns the tables whose names carry no '$'.
func (db *Database) UserTables() []*Table {
	user := make([]*Table, 0, len(db.tables))
	for _, t := range db.tables {
		if !t.IsSystem() {
			user = append(user, t)
		}
	}
	return user
}

// Table looks up a table by exact name.
func (db *Database) Table(name string) (*Table, error) {
	for _, t := range db.tables {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, util.NewError(util.ErrNotFound, fmt.Sprintf("table %s not found", name), nil)
}
