package pgen

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// newZStandardReader streams a zstd-compressed metadata file, as written by
// plink2 --make-pgen with 'vzs' or 'zs' modifiers.
func newZStandardReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

