//go:build linux || darwin

package fmv

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// pageSize is fixed at compile time rather than read via os.Getpagesize:
// the on-disk layout hardcodes a 4 KiB header, so a host reporting a
// different native page size is unsupported, not merely suboptimal.
const pageSize = 4096

func checkHost() error {
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" {
		return ErrUnsupportedHost
	}
	if unix.Getpagesize() != pageSize {
		return ErrUnsupportedHost
	}
	return nil
}

func openFile(path string) (fd int, created bool, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return 0, false, fmt.Errorf("fmv: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, false, fmt.Errorf("fmv: stat %s: %w", path, err)
	}
	fd = int(f.Fd())
	// Fd() hands us the raw descriptor; dup it so *os.File's finalizer
	// closing f doesn't also close the fd we're about to mmap.
	dupFd, err := unix.Dup(fd)
	if err != nil {
		f.Close()
		return 0, false, fmt.Errorf("fmv: dup %s: %w", path, err)
	}
	f.Close()
	return dupFd, info.Size() == 0, nil
}

func fileSize(fd int) (int64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, fmt.Errorf("fmv: fstat: %w", err)
	}
	return st.Size, nil
}

// growFile extends the backing file to at least newSize bytes without
// touching the pages in between. fallocate is preferred because it
// guarantees the blocks are reserved (no later ENOSPC on write);
// ftruncate is the fallback for filesystems that reject fallocate.
func growFile(fd int, newSize int64) error {
	cur, err := fileSize(fd)
	if err != nil {
		return err
	}
	if newSize <= cur {
		return nil
	}
	if err := unix.Fallocate(fd, 0, cur, newSize-cur); err != nil {
		if err := unix.Ftruncate(fd, newSize); err != nil {
			return fmt.Errorf("fmv: grow file: %w", err)
		}
	}
	return nil
}

func mmapRegion(fd int, length uint64) ([]byte, error) {
	region, err := unix.Mmap(fd, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("fmv: mmap: %w", err)
	}
	return region, nil
}

func munmapRegion(region []byte) error {
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("fmv: munmap: %w", err)
	}
	return nil
}

func msyncRegion(region []byte) error {
	if err := unix.Msync(region, unix.MS_ASYNC); err != nil {
		return fmt.Errorf("fmv: msync: %w", err)
	}
	return nil
}

func readAt(fd int, buf []byte, offset int64) (int, error) {
	n, err := unix.Pread(fd, buf, offset)
	if err != nil {
		return n, fmt.Errorf("fmv: pread: %w", err)
	}
	return n, nil
}

func pwriteAt(fd int, buf []byte, offset int64) error {
	n, err := unix.Pwrite(fd, buf, offset)
	if err != nil {
		return fmt.Errorf("fmv: pwrite: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("fmv: short pwrite: wrote %d of %d bytes", n, len(buf))
	}
	return nil
}

func closeFd(fd int) error {
	return unix.Close(fd)
}
