// chronofmv CLI drives a single database directory: it appends a
// synthetic run of timestamped samples to a named table, runs a
// Reduce-based downsampling query over them, and optionally exports
// the result as CSV or serves Prometheus metrics while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nainya/chronofmv/internal/logger"
	"github.com/nainya/chronofmv/internal/metrics"
	"github.com/nainya/chronofmv/internal/obsserver"
	"github.com/nainya/chronofmv/pkg/chronodb"
	"github.com/nainya/chronofmv/pkg/export"
	"github.com/nainya/chronofmv/pkg/table"
)

type sample struct {
	Value float64
}

func (s sample) Header() []string { return []string{"value"} }
func (s sample) Fields() []string { return []string{fmt.Sprintf("%.4f", s.Value)} }

var (
	dbDir       = flag.String("db", "chronofmv-data", "database directory")
	tableName   = flag.String("table", "demo", "table name within the database")
	count       = flag.Int("count", 10000, "number of synthetic samples to append")
	intervalNs  = flag.Uint64("interval-ns", 1_000_000, "nanoseconds between synthetic samples")
	reduceDtNs  = flag.Uint64("reduce-dt-ns", 50_000_000, "Reduce threshold in nanoseconds")
	csvOut      = flag.String("csv", "", "if set, write the reduced series to this CSV file")
	metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
)

func main() {
	flag.Parse()

	log.Printf("chronofmv demo CLI")
	log.Printf("database: %s", *dbDir)
	log.Printf("table: %s", *tableName)

	lg := logger.NewLogger(logger.Config{Level: "info", Pretty: true})
	m := metrics.NewMetrics()

	var obs *obsserver.Server
	if *metricsAddr != "" {
		obs = obsserver.New(*metricsAddr, lg)
		go func() {
			if err := obs.Start(); err != nil {
				lg.Error("observability server exited").Err(err).Send()
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down gracefully...")
		if obs != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			obs.Shutdown(ctx)
		}
		os.Exit(0)
	}()

	db, err := chronodb.Open(*dbDir,
		chronodb.WithFMVHooks(m.FMVHooks()),
		chronodb.WithTableHooks(m.TableHooks()),
	)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	tb, err := chronodb.GetTable[sample](db, *tableName)
	if err != nil {
		log.Fatalf("open table: %v", err)
	}

	log.Printf("appending %d synthetic samples...", *count)
	ts := uint64(0)
	for i := 0; i < *count; i++ {
		val := sample{Value: math.Sin(float64(i) / 100)}
		if err := tb.Append(ts, val); err != nil {
			log.Fatalf("append: %v", err)
		}
		ts += *intervalNs
	}
	if err := tb.Sync(); err != nil {
		log.Fatalf("sync: %v", err)
	}
	log.Printf("table now has %d entries", tb.Size())

	indices := tb.Reduce(0, tb.Size(), *reduceDtNs)
	log.Printf("reduce(dt=%dns) kept %d of %d entries", *reduceDtNs, len(indices), tb.Size())

	if *csvOut != "" {
		if err := writeCSV(*csvOut, tb, indices); err != nil {
			log.Fatalf("csv export: %v", err)
		}
		log.Printf("wrote %s", *csvOut)
	}

	if obs != nil {
		log.Printf("serving metrics on %s; press Ctrl-C to exit", *metricsAddr)
		select {}
	}
}

func writeCSV(path string, tb *table.Table[sample], indices []uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := export.NewCSVWriter(f)
	if len(indices) == 0 {
		return w.Flush()
	}
	_, firstVal := tb.Get(indices[0])
	if err := w.WriteHeader(firstVal); err != nil {
		return err
	}
	for _, idx := range indices {
		ts, val := tb.Get(idx)
		if err := w.WriteRow(ts, val); err != nil {
			return err
		}
	}
	return w.Flush()
}
