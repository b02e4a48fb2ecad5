package table

import (
	"path/filepath"
	"testing"
)

type reading struct {
	Value float64
	Flags uint32
	_     uint32 // padding to keep the struct 8-byte aligned
}

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "series.tbl")
}

func TestAppendAndGet(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	for i := uint64(0); i < 20; i++ {
		if err := tb.Append(i*10, reading{Value: float64(i)}); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}
	if tb.Size() != 20 {
		t.Fatalf("Size = %d, want 20", tb.Size())
	}
	ts, val := tb.Get(5)
	if ts != 50 || val.Value != 5 {
		t.Fatalf("Get(5) = (%d, %+v), want (50, {5 ...})", ts, val)
	}
}

func TestAppendRejectsNonMonotonic(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	var rejects int
	tb.hooks = Hooks{OnReject: func() { rejects++ }}

	if err := tb.Append(100, reading{Value: 1}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tb.Append(50, reading{Value: 2}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if tb.Size() != 1 {
		t.Fatalf("Size = %d, want 1 (out-of-order entry should be dropped)", tb.Size())
	}
	if rejects != 1 {
		t.Fatalf("rejects = %d, want 1", rejects)
	}

	if err := tb.Append(100, reading{Value: 3}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if tb.Size() != 1 {
		t.Fatalf("Size = %d, want 1 (equal timestamp is rejected)", tb.Size())
	}
	if rejects != 2 {
		t.Fatalf("rejects = %d, want 2", rejects)
	}
}

func TestAppendScenario(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	timestamps := []uint64{1, 2, 2, 5, 3, 9}
	for i, ts := range timestamps {
		if err := tb.Append(ts, reading{Value: float64(i)}); err != nil {
			t.Fatalf("Append(%d): %v", ts, err)
		}
	}
	if tb.Size() != 4 {
		t.Fatalf("Size = %d, want 4", tb.Size())
	}
	want := []uint64{1, 2, 5, 9}
	for i, w := range want {
		if ts, _ := tb.Get(uint64(i)); ts != w {
			t.Fatalf("Get(%d) timestamp = %d, want %d", i, ts, w)
		}
	}
}

func TestLocate(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	for i := uint64(0); i < 10; i++ {
		if err := tb.Append(i*10, reading{Value: float64(i)}); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}
	// timestamps: 0, 10, 20, ..., 90

	cases := []struct {
		query uint64
		want  uint64
	}{
		{0, 0},
		{5, 1},
		{10, 1},
		{15, 2},
		{89, 9},
		{90, 9},
		{91, 9},
		{1000, 9},
	}
	for _, c := range cases {
		if got := tb.Locate(c.query); got != c.want {
			t.Errorf("Locate(%d) = %d, want %d", c.query, got, c.want)
		}
	}
}

func TestLocateEmptyTable(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	if got := tb.Locate(42); got != 0 {
		t.Fatalf("Locate on empty table = %d, want 0", got)
	}
}

func TestReduceThinsBursts(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	// A burst of closely spaced samples followed by sparse ones.
	timestamps := []uint64{0, 1, 2, 3, 4, 100, 200, 300}
	for i, ts := range timestamps {
		if err := tb.Append(ts, reading{Value: float64(i)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	indices := tb.Reduce(0, tb.Size(), 10)
	want := []uint64{0, 5, 6, 7} // ts 0, 100, 200, 300 — burst collapses to its first entry
	if len(indices) != len(want) {
		t.Fatalf("Reduce = %v, want %v", indices, want)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("Reduce = %v, want %v", indices, want)
		}
	}
}

func TestReduceZeroDtIsIdentity(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	for i := uint64(0); i < 5; i++ {
		if err := tb.Append(i, reading{Value: float64(i)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	indices := tb.Reduce(0, tb.Size(), 0)
	if len(indices) != 5 {
		t.Fatalf("Reduce with dt=0 = %v, want every index", indices)
	}
}

func TestReduceWindow(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	timestamps := []uint64{0, 1, 2, 3, 4, 100, 200, 300}
	for i, ts := range timestamps {
		if err := tb.Append(ts, reading{Value: float64(i)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	indices := tb.ReduceWindow(0, 300, 10)
	want := []uint64{0, 5, 6, 7}
	if len(indices) != len(want) {
		t.Fatalf("ReduceWindow = %v, want %v", indices, want)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("ReduceWindow = %v, want %v", indices, want)
		}
	}
}

func TestReduceEmptyRange(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tb.Close()

	if got := tb.Reduce(0, 0, 5); got != nil {
		t.Fatalf("Reduce on empty table = %v, want nil", got)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := tempPath(t)
	tb, err := Open[reading](path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := uint64(0); i < 3; i++ {
		if err := tb.Append(i, reading{Value: float64(i) * 1.5}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := tb.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := tb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tb2, err := Open[reading](path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tb2.Close()
	if tb2.Size() != 3 {
		t.Fatalf("Size after reopen = %d, want 3", tb2.Size())
	}
	ts, val := tb2.Get(2)
	if ts != 2 || val.Value != 3 {
		t.Fatalf("Get(2) after reopen = (%d, %+v)", ts, val)
	}
}
