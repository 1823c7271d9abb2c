//go:build !windows

package pgen

import (
	"io"

	"golang.org/x/sys/unix"
)

// mappedSource serves ReadAt from a read-only shared mapping.
type mappedSource struct {
	file *fileSource
	data []byte
}

func openMappedSource(path string) (source, error) {
	f, err := openFileSource(path)
	if err != nil {
		return nil, err
	}
	// A zero-length mapping is rejected by the kernel; the header check
	// reports the empty file instead.
	if f.size == 0 {
		return f, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(f.size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, &IOError{Op: "mmap", Path: path, Err: err}
	}
	return &mappedSource{file: f, data: data}, nil
}

func (m *mappedSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *mappedSource) Size() int64 {
	return int64(len(m.data))
}

func (m *mappedSource) Close() error {
	err := unix.Munmap(m.data)
	if e := m.file.Close(); e != nil && err == nil {
		err = e
	}
	return err
}
