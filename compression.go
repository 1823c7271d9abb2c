package pgen

import (
	"bufio"
	"bytes"
	"io"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
)

// Compression indicates how (and whether) a metadata file is compressed
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionGzip
	CompressionZStandard
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "CompressionDisabled"
	case CompressionGzip:
		return "CompressionGzip"
	case CompressionZStandard:
		return "CompressionZStandard"

	default:
		return "Illegal selection"
	}
}

// DetectCompression inspects the leading bytes of a file.
func DetectCompression(magic []byte) Compression {
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(magic, zstdMagic):
		return CompressionZStandard
	}
	return CompressionDisabled
}

// maybeDecompress wraps rc with a decompressor chosen from its magic bytes.
// Closing the result closes rc.
func maybeDecompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		rc.Close()
		return nil, pfx.Err(err)
	}

	switch DetectCompression(magic) {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			rc.Close()
			return nil, pfx.Err(err)
		}
		return &stackedReadCloser{Reader: gz, closers: []io.Closer{gz, rc}}, nil
	case CompressionZStandard:
		zr, err := newZStandardReader(br)
		if err != nil {
			rc.Close()
			return nil, pfx.Err(err)
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	}

	return &stackedReadCloser{Reader: br, closers: []io.Closer{rc}}, nil
}

// stackedReadCloser reads from the outermost decoder and closes every layer,
// innermost last.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var err error
	for _, c := range s.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
