package pgen

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/gzip"
)

// The two provenance lines that open every exported VCF.
const (
	VCFFileFormatLine = "##fileformat=VCFv4.2"
	VCFSourceLine     = "##source=pgen2vcf"
)

const genotypeFormat = "GT"

// vcfWriter remembers the first write error so that the caller can check
// once per line.
type vcfWriter struct {
	w   *bufio.Writer
	err error
}

func (vw *vcfWriter) writeString(s string) {
	if vw.err != nil {
		return
	}
	_, vw.err = vw.w.WriteString(s)
}

func (vw *vcfWriter) writeByte(c byte) {
	if vw.err != nil {
		return
	}
	vw.err = vw.w.WriteByte(c)
}

// WriteVCF writes the provenance lines, the .pvar comment block, a column
// header extended with FORMAT and the sample ids, then one line per selected
// variant carrying the GT of every selected sample. Variants and samples are
// emitted in selection order. Any write failure is returned as an *IOError.
func WriteVCF(w io.Writer, variants, samples *Selection, gr *GenotypeReader) error {
	vw := &vcfWriter{w: bufio.NewWriter(w)}

	vw.writeString(VCFFileFormatLine + "\n")
	vw.writeString(VCFSourceLine + "\n")
	vw.writeString(variants.Header.Comments)

	vw.writeString(strings.TrimSpace(variants.Header.Columns))
	vw.writeString("\t" + "FORMAT" + "\t")
	vw.writeString(strings.Join(samples.IDs(), "\t"))
	vw.writeByte('\n')
	if vw.err != nil {
		return &IOError{Op: "write VCF header", Err: vw.err}
	}

	sampleRows := samples.Rows()
	genotypes := make([]Genotype, 0, len(sampleRows))
	for _, v := range variants.Entries {
		var err error
		genotypes, err = gr.Genotypes(v.Row, sampleRows, genotypes[:0])
		if err != nil {
			return err
		}

		vw.writeString(strings.TrimSpace(v.Line))
		vw.writeByte('\t')
		vw.writeString(genotypeFormat)
		for _, g := range genotypes {
			vw.writeByte('\t')
			vw.writeString(g.String())
		}
		vw.writeByte('\n')
		if vw.err != nil {
			return &IOError{Op: "write VCF record " + v.ID, Err: vw.err}
		}
	}

	if err := vw.w.Flush(); err != nil {
		return &IOError{Op: "flush VCF", Err: err}
	}
	return nil
}

// Query names the variants and samples to export. Rows, when set, take
// precedence over IDs; All* take precedence over both.
type Query struct {
	VariantIDs  []string
	VariantRows *roaring.Bitmap
	AllVariants bool

	SampleIDs  []string
	SampleRows *roaring.Bitmap
	AllSamples bool

	// Index, if set, resolves VariantIDs without scanning the .pvar.
	Index *VariantIndex
}

// Select resolves a query into variant and sample selections. Both are
// fully validated before anything is written.
func (p *PGEN) Select(ctx context.Context, q Query) (variants, samples *Selection, err error) {
	if variants, err = p.selectVariants(ctx, q); err != nil {
		return nil, nil, err
	}
	if samples, err = p.selectSamples(ctx, q); err != nil {
		return nil, nil, err
	}
	return variants, samples, nil
}

func (p *PGEN) selectVariants(ctx context.Context, q Query) (*Selection, error) {
	switch {
	case q.AllVariants:
		return p.SelectAllVariants(ctx)
	case q.VariantRows != nil:
		return p.SelectVariantRows(ctx, q.VariantRows)
	case q.Index != nil:
		variants, err := q.Index.Select(q.VariantIDs, p.NVariants)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("selected variants from index", "index", q.Index.Path, "requested", len(q.VariantIDs), "selected", variants.Len())
		return variants, nil
	default:
		return p.SelectVariants(ctx, q.VariantIDs)
	}
}

func (p *PGEN) selectSamples(ctx context.Context, q Query) (*Selection, error) {
	switch {
	case q.AllSamples:
		return p.SelectAllSamples(ctx)
	case q.SampleRows != nil:
		return p.SelectSampleRows(ctx, q.SampleRows)
	default:
		return p.SelectSamples(ctx, q.SampleIDs)
	}
}

// WriteVCF resolves q and streams the resulting VCF to w.
func (p *PGEN) WriteVCF(ctx context.Context, w io.Writer, q Query) error {
	variants, samples, err := p.Select(ctx, q)
	if err != nil {
		return err
	}
	return WriteVCF(w, variants, samples, p.NewGenotypeReader())
}

// DefaultVCFPath is where ConvertToVCF writes when no path is given.
func DefaultVCFPath(prefix string, compress bool) string {
	out := prefix + ".pgen2vcf.vcf"
	if compress {
		out += ".gz"
	}
	return out
}

// ConvertToVCF resolves q and writes the VCF to outPath, creating or
// truncating it. With compress set the output is gzip-compressed. If
// anything fails after the file was created, it is removed so that no
// truncated VCF is left behind.
func (p *PGEN) ConvertToVCF(ctx context.Context, outPath string, q Query, compress bool) (err error) {
	variants, samples, err := p.Select(ctx, q)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return &IOError{Op: "create", Path: outPath, Err: err}
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(outPath)
		}
	}()

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err = WriteVCF(w, variants, samples, p.NewGenotypeReader()); err != nil {
		if ioErr, ok := err.(*IOError); ok && ioErr.Path == "" {
			ioErr.Path = outPath
		}
		return err
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return &IOError{Op: "compress", Path: outPath, Err: err}
		}
	}
	if err = f.Close(); err != nil {
		return &IOError{Op: "close", Path: outPath, Err: err}
	}

	p.logger.Info("wrote VCF",
		"path", outPath,
		"variants", variants.Len(),
		"samples", samples.Len(),
	)
	return nil
}
