// Package export writes table contents out in formats external tools
// can consume. It's demonstration glue: chronofmv's core has no notion
// of export formats, only Get/Locate/Reduce.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Row is anything that can render itself as a flat record. Example
// record types implement this so CSVWriter's WriteHeader and WriteRow
// stay generic over whatever T a table holds.
type Row interface {
	// Header returns the column names, not including "timestamp".
	Header() []string
	// Fields returns the column values as strings, in Header order.
	Fields() []string
}

// CSVWriter writes {timestamp, Row} pairs as CSV, with a "timestamp"
// column prepended to the row's own columns.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter wraps w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the header row for rows shaped like sample.
func (c *CSVWriter) WriteHeader(sample Row) error {
	return c.w.Write(append([]string{"timestamp"}, sample.Header()...))
}

// WriteRow writes one {timestamp, value} entry.
func (c *CSVWriter) WriteRow(ts uint64, val Row) error {
	record := append([]string{fmt.Sprintf("%d", ts)}, val.Fields()...)
	return c.w.Write(record)
}

// Flush flushes any buffered CSV data and returns the first error
// encountered, if any.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}
