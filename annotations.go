package pgen

import (
	"context"
	"io"

	"github.com/carbocation/pgen/pvar"
)

// InfoDescriptions parses the ##INFO lines of the .pvar header.
func (p *PGEN) InfoDescriptions(ctx context.Context) ([]pvar.MetaDescription, error) {
	var out []pvar.MetaDescription
	err := p.withMetadata(ctx, p.PvarPath, func(r io.Reader) (err error) {
		out, err = pvar.ReadMetaDescriptions(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("read INFO descriptions", "path", p.PvarPath, "count", len(out))
	return out, nil
}

// EachInfo parses the INFO cell of every .pvar data row, in file order.
func (p *PGEN) EachInfo(ctx context.Context, fn func(row int, id string, fields pvar.InfoFields) error) error {
	return p.withMetadata(ctx, p.PvarPath, func(r io.Reader) error {
		return pvar.EachInfo(r, fn)
	})
}
