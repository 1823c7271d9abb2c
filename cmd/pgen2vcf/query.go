package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/carbocation/pgen"
)

func variantSelectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "variants", Aliases: []string{"v"}, Usage: "variant IDs to export (repeatable, comma-separated)"},
		&cli.StringFlag{Name: "variants-file", Usage: "file with one variant ID per line"},
		&cli.BoolFlag{Name: "all-variants", Usage: "export every variant"},
		&cli.StringFlag{Name: "variant-filter", Usage: "export the .pvar rows matching this expression, e.g. 'CHROM == \"22\"'"},
		&cli.StringFlag{Name: "index", Usage: "SQLite variant index used to resolve --variants"},
		&cli.BoolFlag{Name: "use-index", Usage: "resolve --variants through <prefix>.pvar.sqlite"},
	}
}

func sampleSelectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "samples", Aliases: []string{"s"}, Usage: "sample IIDs to export (repeatable, comma-separated)"},
		&cli.StringFlag{Name: "samples-file", Usage: "file with one sample IID per line"},
		&cli.BoolFlag{Name: "all-samples", Usage: "export every sample"},
		&cli.StringFlag{Name: "sample-filter", Usage: "export the .psam rows matching this expression"},
	}
}

var errNoVariants = errors.New("no variants selected: use --variants, --variants-file, --variant-filter or --all-variants")
var errNoSamples = errors.New("no samples selected: use --samples, --samples-file, --sample-filter or --all-samples")

// variantQuery fills the variant half of q. The returned closer releases the
// variant index, if one was opened.
func variantQuery(ctx context.Context, c *cli.Command, cfg Config, p *pgen.PGEN, logger *slog.Logger, q *pgen.Query) (func(), error) {
	noop := func() {}

	q.AllVariants = c.Bool("all-variants")
	q.VariantIDs = c.StringSlice("variants")
	if path := c.String("variants-file"); path != "" {
		ids, err := readIDFile(path)
		if err != nil {
			return noop, err
		}
		q.VariantIDs = append(q.VariantIDs, ids...)
	}

	if expression := c.String("variant-filter"); expression != "" {
		f, err := pgen.CompileFilter(expression)
		if err != nil {
			return noop, err
		}
		res, err := p.FilterVariants(ctx, f)
		if err != nil {
			return noop, err
		}
		q.VariantRows = res.Rows
	}

	if !q.AllVariants && q.VariantRows == nil && len(q.VariantIDs) == 0 {
		return noop, errNoVariants
	}

	indexPath := c.String("index")
	if indexPath == "" && boolSetting(c, "use-index", cfg.UseIndex) {
		indexPath = pgen.DefaultVariantIndexPath(p.Prefix)
	}
	if indexPath == "" || len(q.VariantIDs) == 0 {
		return noop, nil
	}

	ix, err := pgen.OpenVariantIndex(indexPath)
	if err != nil {
		return noop, err
	}
	logger.Debug("using variant index", "path", indexPath, "created", ix.Metadata.IndexCreationTime.String())
	q.Index = ix
	return func() { ix.Close() }, nil
}

func sampleQuery(ctx context.Context, c *cli.Command, p *pgen.PGEN, q *pgen.Query) error {
	q.AllSamples = c.Bool("all-samples")
	q.SampleIDs = c.StringSlice("samples")
	if path := c.String("samples-file"); path != "" {
		ids, err := readIDFile(path)
		if err != nil {
			return err
		}
		q.SampleIDs = append(q.SampleIDs, ids...)
	}

	if expression := c.String("sample-filter"); expression != "" {
		f, err := pgen.CompileFilter(expression)
		if err != nil {
			return err
		}
		res, err := p.FilterSamples(ctx, f)
		if err != nil {
			return err
		}
		q.SampleRows = res.Rows
	}

	if !q.AllSamples && q.SampleRows == nil && len(q.SampleIDs) == 0 {
		return errNoSamples
	}
	return nil
}
