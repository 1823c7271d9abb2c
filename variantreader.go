package pgen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// GenotypeReader decodes hardcalls from the records of a .pgen. It keeps one
// record-sized buffer, so it is not safe for concurrent use.
type GenotypeReader struct {
	d    *Descriptor
	r    io.ReaderAt
	path string

	// Cached values
	buffer []byte
}

// NewGenotypeReader returns a reader over p's genotype matrix.
func (p *PGEN) NewGenotypeReader() *GenotypeReader {
	return newGenotypeReader(p.Descriptor, p.source, p.PgenPath())
}

func newGenotypeReader(d *Descriptor, r io.ReaderAt, path string) *GenotypeReader {
	return &GenotypeReader{d: d, r: r, path: path}
}

// GenotypeAt decodes a single cell with one single-byte read.
func (gr *GenotypeReader) GenotypeAt(variant, sample uint32) (Genotype, error) {
	if err := gr.checkVariant(variant); err != nil {
		return Missing, err
	}
	if err := gr.checkSample(sample); err != nil {
		return Missing, err
	}

	var cell [1]byte
	offset := gr.d.RecordOffset(variant) + int64(sample/4)
	if err := gr.readAt(cell[:], offset); err != nil {
		return Missing, err
	}

	return decodeGenotype((cell[0] >> (2 * (sample % 4))) & 0b11), nil
}

// ReadRecord reads the whole packed record of a variant with a single read.
// The returned slice is reused by the next call.
func (gr *GenotypeReader) ReadRecord(variant uint32) ([]byte, error) {
	if err := gr.checkVariant(variant); err != nil {
		return nil, err
	}

	size := int(gr.d.RecordSize())
	if cap(gr.buffer) < size {
		gr.buffer = make([]byte, size)
	}
	gr.buffer = gr.buffer[:size]

	if err := gr.readAt(gr.buffer, gr.d.RecordOffset(variant)); err != nil {
		return nil, err
	}
	return gr.buffer, nil
}

// Genotypes decodes the requested samples of one variant, in the order
// given, appending them to dst. The record is read once regardless of how
// many samples are requested.
func (gr *GenotypeReader) Genotypes(variant uint32, samples []uint32, dst []Genotype) ([]Genotype, error) {
	for _, sample := range samples {
		if err := gr.checkSample(sample); err != nil {
			return dst, err
		}
	}

	record, err := gr.ReadRecord(variant)
	if err != nil {
		return dst, err
	}

	for _, sample := range samples {
		dst = append(dst, unpackGenotype(record, sample))
	}
	return dst, nil
}

func (gr *GenotypeReader) readAt(buffer []byte, offset int64) error {
	n, err := gr.r.ReadAt(buffer, offset)
	if n == len(buffer) {
		// io.ReaderAt may report io.EOF alongside a full read at the end of
		// the file.
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &IOError{Op: fmt.Sprintf("read %d bytes at offset %d of", len(buffer), offset), Path: gr.path, Err: err}
}

func (gr *GenotypeReader) checkVariant(variant uint32) error {
	if variant >= gr.d.NVariants {
		return &IOError{
			Op:   "read variant",
			Path: gr.path,
			Err:  fmt.Errorf("%w: variant %d of %d", ErrOutOfRange, variant, gr.d.NVariants),
		}
	}
	return nil
}

func (gr *GenotypeReader) checkSample(sample uint32) error {
	if sample >= gr.d.NSamples {
		return &IOError{
			Op:   "read sample",
			Path: gr.path,
			Err:  fmt.Errorf("%w: sample %d of %d", ErrOutOfRange, sample, gr.d.NSamples),
		}
	}
	return nil
}

// Record holds every sample's genotype for one variant.
type Record struct {
	Row       uint32
	Genotypes []Genotype
}

// VariantReader walks every record of a .pgen in file order.
type VariantReader struct {
	VariantsSeen uint32
	gr           *GenotypeReader
	err          error
}

func (p *PGEN) NewVariantReader() *VariantReader {
	return &VariantReader{
		gr: p.NewGenotypeReader(),
	}
}

func (vr *VariantReader) Error() error {
	return vr.err
}

// Read returns the next record, or nil once every variant has been read or
// an error occurred (see Error).
func (vr *VariantReader) Read() *Record {
	if vr.err != nil || vr.VariantsSeen >= vr.gr.d.NVariants {
		return nil
	}

	record, err := vr.gr.ReadRecord(vr.VariantsSeen)
	if err != nil {
		vr.err = err
		return nil
	}

	rec := &Record{
		Row:       vr.VariantsSeen,
		Genotypes: make([]Genotype, vr.gr.d.NSamples),
	}
	if err := newPairReader(bytes.NewReader(record)).ReadGenotypes(rec.Genotypes); err != nil {
		vr.err = &IOError{Op: "decode record", Path: vr.gr.path, Err: err}
		return nil
	}

	vr.VariantsSeen++
	return rec
}
