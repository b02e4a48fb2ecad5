package fmv

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "table.fmv")
}

func putU64(b []byte, v uint64) []byte {
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func TestOpenCreatesFile(t *testing.T) {
	path := tempPath(t)
	v, err := Open(path, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer v.Close()

	if v.Size() != 0 {
		t.Fatalf("Size = %d, want 0", v.Size())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not created: %v", err)
	}
}

func TestAppendAndGet(t *testing.T) {
	path := tempPath(t)
	v, err := Open(path, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer v.Close()

	for i := uint64(0); i < 10; i++ {
		if err := v.Append(putU64(make([]byte, 8), i*7)); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}
	if v.Size() != 10 {
		t.Fatalf("Size = %d, want 10", v.Size())
	}
	for i := uint64(0); i < 10; i++ {
		got := binary.LittleEndian.Uint64(v.Get(i))
		if got != i*7 {
			t.Fatalf("Get(%d) = %d, want %d", i, got, i*7)
		}
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := tempPath(t)
	v, err := Open(path, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := uint64(0); i < 5; i++ {
		if err := v.Append(putU64(make([]byte, 8), i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := v.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	v2, err := Open(path, 8)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer v2.Close()
	if v2.Size() != 5 {
		t.Fatalf("Size after reopen = %d, want 5", v2.Size())
	}
	for i := uint64(0); i < 5; i++ {
		got := binary.LittleEndian.Uint64(v2.Get(i))
		if got != i {
			t.Fatalf("Get(%d) after reopen = %d, want %d", i, got, i)
		}
	}
}

func TestGrowthPreservesEarlierElements(t *testing.T) {
	path := tempPath(t)
	v, err := Open(path, 8, WithReservation(1<<30))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer v.Close()

	const n = initialElements*2 + 5 // forces at least two doublings
	for i := uint64(0); i < n; i++ {
		if err := v.Append(putU64(make([]byte, 8), i)); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}
	for i := uint64(0); i < n; i++ {
		got := binary.LittleEndian.Uint64(v.Get(i))
		if got != i {
			t.Fatalf("Get(%d) = %d, want %d after growth", i, got, i)
		}
	}
}

func TestOpenRejectsShortFile(t *testing.T) {
	path := tempPath(t)
	if err := os.WriteFile(path, []byte("not a table"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(path, 8); err != ErrShortFile {
		t.Fatalf("Open error = %v, want ErrShortFile", err)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path := tempPath(t)
	buf := make([]byte, HeaderSize+64)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(path, 8); err != ErrBadMagic {
		t.Fatalf("Open error = %v, want ErrBadMagic", err)
	}
}

func TestOpenRejectsBadStride(t *testing.T) {
	path := tempPath(t)
	if _, err := Open(path, 0); err != ErrBadStride {
		t.Fatalf("Open error = %v, want ErrBadStride", err)
	}
	if _, err := Open(path, 7); err != ErrBadStride {
		t.Fatalf("Open error = %v, want ErrBadStride", err)
	}
}

func TestOpenRejectsMisalignedData(t *testing.T) {
	path := tempPath(t)
	v, err := Open(path, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := v.Append(putU64(make([]byte, 8), 1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(path, 24); err != ErrMisaligned {
		t.Fatalf("Open with mismatched stride = %v, want ErrMisaligned", err)
	}
}

func TestHooksFire(t *testing.T) {
	path := tempPath(t)
	var appends, growths, syncs int
	v, err := Open(path, 8, WithHooks(Hooks{
		OnAppend: func(ok bool) {
			if ok {
				appends++
			}
		},
		OnGrowth: func(uint64, uint64) { growths++ },
		OnSync:   func() { syncs++ },
	}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer v.Close()

	for i := uint64(0); i < initialElements+1; i++ {
		if err := v.Append(putU64(make([]byte, 8), i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := v.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if appends != initialElements+1 {
		t.Fatalf("appends = %d, want %d", appends, initialElements+1)
	}
	if growths != 1 {
		t.Fatalf("growths = %d, want 1", growths)
	}
	if syncs != 1 {
		t.Fatalf("syncs = %d, want 1", syncs)
	}
}
