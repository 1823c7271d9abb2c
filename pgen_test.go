package pgen

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDescriptor(t *testing.T) {
	d, err := ReadDescriptor(bytes.NewReader(pgenHeader(3, 5)))
	require.NoError(t, err)

	assert.Equal(t, MagicNumber, d.Magic)
	assert.Equal(t, StorageModeFixedWidth2Bit, d.StorageMode)
	assert.Equal(t, uint32(3), d.NVariants)
	assert.Equal(t, uint32(5), d.NSamples)
	assert.Equal(t, SupportedFlags, d.Flags)
}

func TestReadDescriptor_LeavesCursorAfterPreamble(t *testing.T) {
	r := bytes.NewReader(append(pgenHeader(1, 4), 0b11100100))
	_, err := ReadDescriptor(r)
	require.NoError(t, err)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0b11100100}, rest)
}

func TestReadDescriptor_Faults(t *testing.T) {
	withByte := func(offset int, b byte) []byte {
		h := pgenHeader(1, 1)
		h[offset] = b
		return h
	}

	tests := []struct {
		name  string
		input []byte
		fault FormatFault
	}{
		{"empty", nil, Truncated},
		{"one byte", []byte{0x6c}, Truncated},
		{"text file", []byte("#CHROM\tPOS"), BadMagic},
		{"bad magic", withByte(1, 0x1c), BadMagic},
		{"storage mode", withByte(offsetStorageMode, 0x10), UnsupportedStorageMode},
		{"flags", withByte(offsetFlags, 0x00), UnsupportedFlags},
		{"short preamble", pgenHeader(1, 1)[:HeaderSize-1], Truncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDescriptor(bytes.NewReader(tt.input))
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %T: %v", err, err)
			assert.Equal(t, tt.fault, fe.Fault)
			assert.True(t, IsFormatError(err))
		})
	}
}

func TestDescriptor_RecordGeometry(t *testing.T) {
	tests := []struct {
		samples uint32
		size    int64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 1},
		{5, 2},
		{8, 2},
		{9, 3},
		{1000, 250},
		{1001, 251},
	}
	for _, tt := range tests {
		d := &Descriptor{NVariants: 10, NSamples: tt.samples}
		assert.Equal(t, tt.size, d.RecordSize(), "samples=%d", tt.samples)
		assert.Equal(t, int64(HeaderSize)+7*tt.size, d.RecordOffset(7), "samples=%d", tt.samples)
	}
}

func TestOpen(t *testing.T) {
	prefix := defaultFileset(t)
	p := openFileset(t, prefix)

	assert.Equal(t, uint32(3), p.NVariants)
	assert.Equal(t, uint32(5), p.NSamples)
	assert.Equal(t, int64(2), p.RecordSize())
	assert.Equal(t, prefix+".pgen", p.PgenPath())
	assert.Equal(t, prefix+".pvar", p.PvarPath)
	assert.Equal(t, prefix+".psam", p.PsamPath)
}

func TestOpen_Mmap(t *testing.T) {
	p := openFileset(t, defaultFileset(t), WithMmap())

	g, err := p.NewGenotypeReader().GenotypeAt(2, 4)
	require.NoError(t, err)
	assert.Equal(t, HomozygousAlt, g)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir()+"/absent")
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpen_BadHeader(t *testing.T) {
	prefix := writeFileset(t, testPvar, testPsam, []byte("not a pgen file"))
	_, err := Open(context.Background(), prefix)
	assert.True(t, IsFormatError(err))
}

func TestOpen_PathOverrides(t *testing.T) {
	prefix := defaultFileset(t)
	other := t.TempDir() + "/renamed.pvar"
	writeFile(t, other, []byte(testPvar))

	p := openFileset(t, prefix, WithPvarPath(other))
	assert.Equal(t, other, p.PvarPath)
	assert.Equal(t, prefix+".psam", p.PsamPath)
}
