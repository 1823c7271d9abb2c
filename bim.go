package pgen

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/carbocation/genomisc"
)

// BIMRow converts a .pvar row into the PLINK 1 variant record. Allele1 is the
// ALT allele and Allele2 the REF allele, matching plink's --make-bed.
func (v *Variant) BIMRow() genomisc.BIMRow {
	return genomisc.BIMRow{
		Chromosome: Chromosome(v.Chromosome),
		Coordinate: v.Position,
		VariantID:  v.ID,
		Allele1:    v.Alt,
		Allele2:    v.Ref,
	}
}

// WriteBIM writes one six-column .bim line per variant. The genetic position
// comes from the .pvar CM column when present, and is 0 otherwise.
func WriteBIM(w io.Writer, variants []*Variant) error {
	bw := bufio.NewWriter(w)

	fields := make([]string, genomisc.Allele2+1)
	for _, v := range variants {
		row := v.BIMRow()

		fields[genomisc.Chromosome] = row.Chromosome
		fields[genomisc.VariantID] = row.VariantID
		fields[genomisc.Morgans] = "0"
		if v.CM != "" {
			fields[genomisc.Morgans] = v.CM
		}
		fields[genomisc.Coordinate] = strconv.FormatUint(uint64(row.Coordinate), 10)
		fields[genomisc.Allele1] = row.Allele1
		fields[genomisc.Allele2] = row.Allele2

		for i, field := range fields {
			if i > 0 {
				bw.WriteByte('\t')
			}
			bw.WriteString(field)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return &IOError{Op: "write BIM row " + v.ID, Err: err}
		}
	}

	if err := bw.Flush(); err != nil {
		return &IOError{Op: "flush BIM", Err: err}
	}
	return nil
}

// WriteBIM writes the selected variants of q as a .bim.
func (p *PGEN) WriteBIM(ctx context.Context, w io.Writer, q Query) error {
	variants, err := p.selectVariants(ctx, q)
	if err != nil {
		return err
	}
	parsed, err := variants.Variants()
	if err != nil {
		return &ConsistencyError{File: p.PvarPath, Reason: err.Error()}
	}
	return WriteBIM(w, parsed)
}
