package pgen

import (
	"context"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/carbocation/pfx"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression over the columns of a metadata
// row, e.g. `ID == "rs8100066"` or `CHROM == "22" && int(POS) > 16050000`.
// Every column value is a string.
type Filter struct {
	Expression string
	program    *vm.Program
}

func CompileFilter(expression string) (*Filter, error) {
	program, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, pfx.Err(err)
	}
	return &Filter{Expression: expression, program: program}, nil
}

// Match evaluates the filter against one row.
func (f *Filter) Match(row Row) (bool, error) {
	env := make(map[string]interface{}, len(row))
	for k, v := range row {
		env[k] = v
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, pfx.Err(err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, pfx.Err(fmt.Errorf("filter %q returned %T, not bool", f.Expression, out))
	}
	return matched, nil
}

// FilterResult lists the rows of a metadata file accepted by a Filter.
type FilterResult struct {
	IDs     []string
	Rows    *roaring.Bitmap
	Scanned int
}

// FilterTable evaluates f against every record of t. idColumn names the
// column whose values are reported in IDs.
func FilterTable(t *TableReader, f *Filter, idColumn string) (*FilterResult, error) {
	res := &FilterResult{Rows: roaring.New()}
	for {
		row, err := t.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}

		matched, err := f.Match(row)
		if err != nil {
			return nil, err
		}
		if matched {
			res.Rows.Add(uint32(t.Rows() - 1))
			res.IDs = append(res.IDs, row[idColumn])
		}
	}
	res.Scanned = t.Rows()
	return res, nil
}

// FilterVariants evaluates f against every .pvar row.
func (p *PGEN) FilterVariants(ctx context.Context, f *Filter) (*FilterResult, error) {
	return p.filterMetadata(ctx, p.PvarPath, f, "ID", p.NVariants)
}

// FilterSamples evaluates f against every .psam row.
func (p *PGEN) FilterSamples(ctx context.Context, f *Filter) (*FilterResult, error) {
	return p.filterMetadata(ctx, p.PsamPath, f, "IID", p.NSamples)
}

func (p *PGEN) filterMetadata(ctx context.Context, path string, f *Filter, idColumn string, expected uint32) (*FilterResult, error) {
	var res *FilterResult
	err := p.withMetadata(ctx, path, func(r io.Reader) error {
		t, err := NewTableReader(r)
		if err != nil {
			return &IOError{Op: "read header", Path: path, Err: err}
		}
		res, err = FilterTable(t, f, idColumn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Scanned != int(expected) {
		return nil, &ConsistencyError{
			File:     path,
			Reason:   "data row count does not match the .pgen header",
			Expected: int(expected),
			Observed: res.Scanned,
		}
	}

	p.logger.Debug("filtered metadata",
		"path", path,
		"filter", f.Expression,
		"scanned", res.Scanned,
		"matched", res.Rows.GetCardinality(),
	)
	return res, nil
}
