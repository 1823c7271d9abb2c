package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/carbocation/pgen"
)

func convertCmd() *cli.Command {
	flags := append(pfileFlags(), variantSelectionFlags()...)
	flags = append(flags, sampleSelectionFlags()...)
	flags = append(flags,
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path, or - for stdout (default <prefix>.pgen2vcf.vcf)"},
		&cli.BoolFlag{Name: "gzip", Aliases: []string{"z"}, Usage: "gzip-compress the output"},
	)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Write the selected variants and samples as VCF",
		ArgsUsage: "<prefix>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := LoadConfig()

			p, logger, err := openPfile(ctx, c, cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			var q pgen.Query
			release, err := variantQuery(ctx, c, cfg, p, logger, &q)
			defer release()
			if err != nil {
				return err
			}
			if err := sampleQuery(ctx, c, p, &q); err != nil {
				return err
			}

			out := c.String("out")
			if out == "-" {
				return p.WriteVCF(ctx, os.Stdout, q)
			}
			compress := boolSetting(c, "gzip", cfg.Gzip)
			if out == "" {
				out = pgen.DefaultVCFPath(p.Prefix, compress)
			}
			return p.ConvertToVCF(ctx, out, q, compress)
		},
	}
}
