package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/carbocation/pfx"
	"github.com/carbocation/pgen"
)

func bimCmd() *cli.Command {
	flags := append(pfileFlags(), variantSelectionFlags()...)
	flags = append(flags,
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default stdout)"},
	)

	return &cli.Command{
		Name:      "bim",
		Usage:     "Write the selected variants as a PLINK 1 .bim",
		ArgsUsage: "<prefix>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) (err error) {
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

			out := c.String("out")
			if out == "" || out == "-" {
				return p.WriteBIM(ctx, os.Stdout, q)
			}

			f, err := os.Create(out)
			if err != nil {
				return pfx.Err(err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = pfx.Err(cerr)
				}
			}()
			return p.WriteBIM(ctx, f, q)
		},
	}
}
