package pgen

import (
	"io"
)

// pairReader yields consecutive 2-bit genotype codes from a packed record.
// Within each byte the least-significant pair comes first.
type pairReader struct {
	reader io.ByteReader
	byte   byte
	offset byte

	errCache error
}

func newPairReader(r io.ByteReader) *pairReader {
	return &pairReader{reader: r}
}

func (r *pairReader) ReadPair() (byte, error) {
	if r.offset == 4 {
		r.offset = 0
	}
	if r.offset == 0 {
		if r.byte, r.errCache = r.reader.ReadByte(); r.errCache != nil {
			return 0, r.errCache
		}
	}
	pair := (r.byte >> (2 * r.offset)) & 0b11
	r.offset++
	return pair, nil
}

// ReadGenotypes fills dst with the next len(dst) genotypes.
func (r *pairReader) ReadGenotypes(dst []Genotype) error {
	for i := range dst {
		pair, err := r.ReadPair()
		if err != nil {
			return err
		}
		dst[i] = decodeGenotype(pair)
	}
	return nil
}
