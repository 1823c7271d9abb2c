package pgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Variant is a structured .pvar row.
type Variant struct {
	Row        uint32
	Chromosome string
	Position   uint32
	ID         string
	Ref        string
	Alt        string
	CM         string // Empty when the .pvar has no CM column
	Line       string
}

// variantColumns locates the fields of a .pvar row by header name.
type variantColumns struct {
	chrom, pos, id, ref, alt, cm int
	min                          int
}

func newVariantColumns(names []string) (variantColumns, error) {
	c := variantColumns{chrom: -1, pos: -1, id: -1, ref: -1, alt: -1, cm: -1}
	for i, name := range names {
		switch name {
		case "#CHROM":
			c.chrom = i
		case "POS":
			c.pos = i
		case "ID":
			c.id = i
		case "REF":
			c.ref = i
		case "ALT":
			c.alt = i
		case "CM":
			c.cm = i
		}
	}
	for _, col := range []struct {
		name  string
		index int
	}{{"#CHROM", c.chrom}, {"POS", c.pos}, {"ID", c.id}, {"REF", c.ref}, {"ALT", c.alt}} {
		if col.index < 0 {
			return c, fmt.Errorf("pvar header %q has no %s column", strings.Join(names, "\t"), col.name)
		}
		if col.index >= c.min {
			c.min = col.index + 1
		}
	}
	return c, nil
}

func (c variantColumns) parse(row uint32, line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < c.min {
		return nil, fmt.Errorf("pvar row %d has %d columns, expected at least %d", row, len(fields), c.min)
	}
	pos, err := strconv.ParseUint(fields[c.pos], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("pvar row %d: invalid POS %q: %w", row, fields[c.pos], err)
	}
	v := &Variant{
		Row:        row,
		Chromosome: fields[c.chrom],
		Position:   uint32(pos),
		ID:         fields[c.id],
		Ref:        fields[c.ref],
		Alt:        fields[c.alt],
		Line:       line,
	}
	if c.cm >= 0 && c.cm < len(fields) {
		v.CM = fields[c.cm]
	}
	return v, nil
}

// Variants parses every entry of a .pvar selection.
func (s *Selection) Variants() ([]*Variant, error) {
	cols, err := newVariantColumns(s.Header.ColumnNames())
	if err != nil {
		return nil, err
	}
	out := make([]*Variant, 0, len(s.Entries))
	for _, e := range s.Entries {
		v, err := cols.parse(e.Row, e.Line)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *PGEN) pvarScan() metadataScan {
	ms := pvarScan
	ms.path = p.PvarPath
	return ms
}

// SelectVariants scans the .pvar once and returns the rows whose ID is in
// ids, in file order, along with the .pvar header.
func (p *PGEN) SelectVariants(ctx context.Context, ids []string) (*Selection, error) {
	var sel *Selection
	err := p.withMetadata(ctx, p.PvarPath, func(r io.Reader) (err error) {
		sel, err = selectByID(r, p.pvarScan(), ids, p.NVariants)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("selected variants", "path", p.PvarPath, "requested", len(ids), "selected", sel.Len())
	return sel, nil
}

// SelectAllVariants returns every .pvar row.
func (p *PGEN) SelectAllVariants(ctx context.Context) (*Selection, error) {
	var sel *Selection
	err := p.withMetadata(ctx, p.PvarPath, func(r io.Reader) (err error) {
		sel, err = selectAll(r, p.pvarScan(), p.NVariants)
		return err
	})
	return sel, err
}

// SelectVariantRows returns the .pvar rows whose indices are set in rows.
func (p *PGEN) SelectVariantRows(ctx context.Context, rows *roaring.Bitmap) (*Selection, error) {
	var sel *Selection
	err := p.withMetadata(ctx, p.PvarPath, func(r io.Reader) (err error) {
		sel, err = selectByRow(r, p.pvarScan(), rows, p.NVariants)
		return err
	})
	return sel, err
}

var errStopScan = errors.New("stop scan")

// ReadVariantHeader returns the .pvar comment block and column header
// without scanning the data rows.
func (p *PGEN) ReadVariantHeader(ctx context.Context) (*MetadataHeader, error) {
	var header *MetadataHeader
	err := p.withMetadata(ctx, p.PvarPath, func(r io.Reader) error {
		h, _, err := scanMetadata(r, p.pvarScan(), func(uint32, string, string) error {
			return errStopScan
		})
		if err != nil && err != errStopScan {
			return err
		}
		header = h
		return nil
	})
	return header, err
}
