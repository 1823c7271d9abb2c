package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/carbocation/pgen"
)

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Build a SQLite index of .pvar variant IDs",
		ArgsUsage: "<prefix>",
		Flags: append(pfileFlags(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "index path (default <prefix>.pvar.sqlite)"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, logger, err := openPfile(ctx, c, LoadConfig())
			if err != nil {
				return err
			}
			defer p.Close()

			out := c.String("out")
			if out == "" {
				out = pgen.DefaultVariantIndexPath(p.Prefix)
			}
			logger.Info("building variant index", "pvar", p.PvarPath, "out", out, "sqlite_driver", pgen.WhichSQLiteDriver())
			return pgen.BuildVariantIndex(ctx, p, out)
		},
	}
}
