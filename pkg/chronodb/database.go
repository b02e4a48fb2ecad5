// ABOUTME: Database is a directory-scoped registry of lazily-opened tables
// ABOUTME: each name maps to one table file, opened once and cached by type

package chronodb

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/nainya/chronofmv/pkg/table"
)

type handle struct {
	typ     reflect.Type
	value   any
	closeFn func() error
	syncFn  func() error
}

// Database lazily opens one table file per name inside a directory. A
// name is opened at most once; asking for it again with the same
// element type returns the already-open table, and asking for it with
// a different element type fails instead of silently aliasing two
// incompatible views over the same file.
//
// Like Table and FMV, a Database is meant for a single writer process
// and is safe for concurrent use from multiple goroutines within that
// process (table lookups are locked; each table itself is not).
type Database struct {
	dir       string
	tableOpts []Option

	mu     sync.Mutex
	tables map[string]*handle
}

// Open ensures dir exists and returns a Database rooted there. No
// table files are created or opened until GetTable is called for a
// given name.
func Open(dir string, opts ...Option) (*Database, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chronodb: create %s: %w", dir, err)
	}
	return &Database{
		dir:       dir,
		tableOpts: opts,
		tables:    make(map[string]*handle),
	}, nil
}

func tablePath(dir, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("chronodb: invalid table name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// GetTable returns the table named name, opening it on first use. The
// element type T is part of the name's identity: requesting an
// already-open name with a different T returns ErrTypeMismatch rather
// than reinterpreting the existing table's bytes as a different shape.
func GetTable[T any](db *Database, name string) (*table.Table[T], error) {
	typ := reflect.TypeFor[T]()

	db.mu.Lock()
	defer db.mu.Unlock()

	if h, ok := db.tables[name]; ok {
		if h.typ != typ {
			return nil, fmt.Errorf("%w: %q is %s, requested %s", ErrTypeMismatch, name, h.typ, typ)
		}
		tb, ok := h.value.(*table.Table[T])
		if !ok {
			return nil, fmt.Errorf("%w: %q is %s, requested %s", ErrTypeMismatch, name, h.typ, typ)
		}
		return tb, nil
	}

	path, err := tablePath(db.dir, name)
	if err != nil {
		return nil, err
	}

	var tableOpts []table.Option
	for _, opt := range db.tableOpts {
		var cfg config
		opt(&cfg)
		tableOpts = append(tableOpts, cfg.tableOpts...)
	}

	tb, err := table.Open[T](path, tableOpts...)
	if err != nil {
		return nil, fmt.Errorf("chronodb: open table %q: %w", name, err)
	}

	db.tables[name] = &handle{
		typ:     typ,
		value:   tb,
		closeFn: tb.Close,
		syncFn:  tb.Sync,
	}
	return tb, nil
}

// Names returns the names of every table opened so far, in no
// particular order.
func (db *Database) Names() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	return names
}

// Sync flushes every open table to disk, continuing past individual
// failures and returning the combined error.
func (db *Database) Sync() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	var errs []error
	for name, h := range db.tables {
		if err := h.syncFn(); err != nil {
			errs = append(errs, fmt.Errorf("table %q: %w", name, err))
		}
	}
	return joinErrors(errs)
}

// Close closes every open table, continuing past individual failures
// and returning the combined error.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	var errs []error
	for name, h := range db.tables {
		if err := h.closeFn(); err != nil {
			errs = append(errs, fmt.Errorf("table %q: %w", name, err))
		}
	}
	db.tables = make(map[string]*handle)
	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("chronodb: %s", strings.Join(msgs, "; "))
}
