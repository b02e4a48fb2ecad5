package chronodb

import (
	"github.com/nainya/chronofmv/pkg/fmv"
	"github.com/nainya/chronofmv/pkg/table"
)

// Option configures a Database at Open time. Every option applies to
// every table the Database lazily opens, since a single writer process
// typically wants one reservation size and one set of hooks across its
// whole directory of tables.
type Option func(*config)

type config struct {
	tableOpts []table.Option
}

// WithReservation overrides the virtual reservation every table in
// this database maps.
func WithReservation(bytes uint64) Option {
	return func(c *config) { c.tableOpts = append(c.tableOpts, table.WithReservation(bytes)) }
}

// WithFMVHooks attaches FMV-level observability callbacks to every
// table this database opens.
func WithFMVHooks(h fmv.Hooks) Option {
	return func(c *config) { c.tableOpts = append(c.tableOpts, table.WithFMVHooks(h)) }
}

// WithTableHooks attaches table-level observability callbacks to every
// table this database opens.
func WithTableHooks(h table.Hooks) Option {
	return func(c *config) { c.tableOpts = append(c.tableOpts, table.WithHooks(h)) }
}
