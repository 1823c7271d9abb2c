package pgen

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// MagicNumber contains the value required to confirm that a file is a PLINK2
// .pgen file
var MagicNumber = [2]byte{0x6c, 0x1b}

const (
	offsetMagicNumber    = 0
	offsetStorageMode    = 2
	offsetNumberVariants = 3
	offsetNumberSamples  = 7
	offsetFlags          = 11

	// HeaderSize is the length of the fixed preamble. The first variant
	// record starts immediately after it.
	HeaderSize = 12
)

// SupportedFlags is the only header flag byte that is understood
const SupportedFlags byte = 0x40

// Descriptor is the validated .pgen preamble.
type Descriptor struct {
	Magic       [2]byte
	StorageMode StorageMode
	NVariants   uint32
	NSamples    uint32
	Flags       byte
}

// RecordSize is the number of bytes used by each variant record:
// ceil(NSamples*2/8).
func (d *Descriptor) RecordSize() int64 {
	bits := int64(d.NSamples) * 2
	size := bits / 8
	if bits%8 != 0 {
		size++
	}
	return size
}

// RecordOffset is the absolute file offset of the record for the variant at
// row index variant.
func (d *Descriptor) RecordOffset(variant uint32) int64 {
	return HeaderSize + int64(variant)*d.RecordSize()
}

// ReadDescriptor reads exactly HeaderSize bytes from r and validates them.
// Nothing is substituted: every field that does not match the single
// supported configuration yields a *FormatError.
func ReadDescriptor(r io.Reader) (*Descriptor, error) {
	buffer := make([]byte, HeaderSize)

	n, err := io.ReadFull(r, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, &IOError{Op: "read header", Err: err}
	}
	buffer = buffer[:n]

	// Report the earliest field that can be judged, so that a short text
	// file is called out for its magic number rather than its length.
	if n >= offsetStorageMode {
		if magic := buffer[offsetMagicNumber:offsetStorageMode]; magic[0] != MagicNumber[0] || magic[1] != MagicNumber[1] {
			return nil, &FormatError{Fault: BadMagic, Value: append([]byte(nil), magic...)}
		}
	}
	if n > offsetStorageMode {
		if mode := StorageMode(buffer[offsetStorageMode]); mode != StorageModeFixedWidth2Bit {
			return nil, &FormatError{Fault: UnsupportedStorageMode, Value: []byte{byte(mode)}}
		}
	}
	if n < HeaderSize {
		return nil, &FormatError{Fault: Truncated, Value: append([]byte(nil), buffer...)}
	}

	d := &Descriptor{
		StorageMode: StorageMode(buffer[offsetStorageMode]),
		NVariants:   binary.LittleEndian.Uint32(buffer[offsetNumberVariants:offsetNumberSamples]),
		NSamples:    binary.LittleEndian.Uint32(buffer[offsetNumberSamples:offsetFlags]),
		Flags:       buffer[offsetFlags],
	}
	copy(d.Magic[:], buffer[offsetMagicNumber:offsetStorageMode])

	if d.Flags != SupportedFlags {
		return nil, &FormatError{Fault: UnsupportedFlags, Value: []byte{d.Flags}}
	}

	return d, nil
}

// PGEN is an open PLINK2 fileset: the .pgen genotype matrix plus the paths of
// its .pvar and .psam companions. It is not safe for concurrent use.
type PGEN struct {
	*Descriptor

	Prefix   string
	PvarPath string
	PsamPath string

	source source
	logger *slog.Logger

	useMmap     bool
	storage     *storage.Client
	ownsStorage bool
}

// Open validates the preamble of <prefix>.pgen and locates the .pvar and .psam
// files, which may be gzip or zstd compressed. prefix may be a local path or a
// gs://bucket/object prefix.
func Open(ctx context.Context, prefix string, opts ...Option) (*PGEN, error) {
	p := &PGEN{
		Prefix: prefix,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	src, err := p.openSource(ctx, p.PgenPath())
	if err != nil {
		p.Close()
		return nil, err
	}
	p.source = src

	d, err := ReadDescriptor(io.NewSectionReader(src, 0, HeaderSize))
	if err != nil {
		p.Close()
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = p.PgenPath()
		}
		return nil, err
	}
	p.Descriptor = d

	if want := d.RecordOffset(d.NVariants); src.Size() != want {
		p.logger.Warn("pgen size does not match header",
			"path", p.PgenPath(),
			"size", src.Size(),
			"expected", want,
		)
	}

	if p.PvarPath == "" {
		p.PvarPath = p.resolveMetadataPath(ctx, prefix+".pvar")
	}
	if p.PsamPath == "" {
		p.PsamPath = p.resolveMetadataPath(ctx, prefix+".psam")
	}

	p.logger.Debug("opened pgen",
		"path", p.PgenPath(),
		"variants", d.NVariants,
		"samples", d.NSamples,
		"record_size", d.RecordSize(),
	)

	return p, nil
}

// PgenPath is the location of the binary genotype matrix.
func (p *PGEN) PgenPath() string {
	return p.Prefix + ".pgen"
}

// Close releases the .pgen handle and, if Open created one, the storage
// client.
func (p *PGEN) Close() error {
	var err error
	if p.source != nil {
		if e := p.source.Close(); e != nil {
			err = pfx.Err(e)
		}
		p.source = nil
	}
	if p.ownsStorage && p.storage != nil {
		if e := p.storage.Close(); e != nil && err == nil {
			err = pfx.Err(e)
		}
		p.storage = nil
	}
	return err
}
