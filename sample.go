package pgen

import (
	"context"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
)

type Sample struct {
	SampleID string
}

func (p *PGEN) psamScan() metadataScan {
	ms := psamScan
	ms.path = p.PsamPath
	return ms
}

// ReadSamples lists every sample of the .psam in row order.
func (p *PGEN) ReadSamples(ctx context.Context) ([]Sample, error) {
	sel, err := p.SelectAllSamples(ctx)
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, sel.Len())
	for _, e := range sel.Entries {
		samples = append(samples, Sample{SampleID: e.ID})
	}
	return samples, nil
}

// SelectSamples scans the .psam once and returns the rows whose IID is in
// ids, in file order.
func (p *PGEN) SelectSamples(ctx context.Context, ids []string) (*Selection, error) {
	var sel *Selection
	err := p.withMetadata(ctx, p.PsamPath, func(r io.Reader) (err error) {
		sel, err = selectByID(r, p.psamScan(), ids, p.NSamples)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("selected samples", "path", p.PsamPath, "requested", len(ids), "selected", sel.Len())
	return sel, nil
}

// SelectAllSamples returns every .psam row.
func (p *PGEN) SelectAllSamples(ctx context.Context) (*Selection, error) {
	var sel *Selection
	err := p.withMetadata(ctx, p.PsamPath, func(r io.Reader) (err error) {
		sel, err = selectAll(r, p.psamScan(), p.NSamples)
		return err
	})
	return sel, err
}

// SelectSampleRows returns the .psam rows whose indices are set in rows.
func (p *PGEN) SelectSampleRows(ctx context.Context, rows *roaring.Bitmap) (*Selection, error) {
	var sel *Selection
	err := p.withMetadata(ctx, p.PsamPath, func(r io.Reader) (err error) {
		sel, err = selectByRow(r, p.psamScan(), rows, p.NSamples)
		return err
	})
	return sel, err
}
