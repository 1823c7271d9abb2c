package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/carbocation/pgen"
)

type filterSummary struct {
	Expression string   `json:"expression"`
	Scanned    int      `json:"scanned"`
	IDs        []string `json:"ids"`
	Rows       []uint32 `json:"rows"`
}

func filterCmd() *cli.Command {
	return &cli.Command{
		Name:      "filter",
		Usage:     "List the .pvar (or .psam) rows matching an expression",
		ArgsUsage: "<prefix>",
		Flags: append(pfileFlags(),
			&cli.StringFlag{Name: "expr", Aliases: []string{"e"}, Usage: "boolean expression over the column names, e.g. 'CHROM == \"22\" && int(POS) > 16050000'", Required: true},
			&cli.BoolFlag{Name: "samples", Usage: "filter the .psam instead of the .pvar"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, _, err := openPfile(ctx, c, LoadConfig())
			if err != nil {
				return err
			}
			defer p.Close()

			expression := c.String("expr")
			if expression == "" {
				return errors.New("empty --expr")
			}
			f, err := pgen.CompileFilter(expression)
			if err != nil {
				return err
			}

			var res *pgen.FilterResult
			if c.Bool("samples") {
				res, err = p.FilterSamples(ctx, f)
			} else {
				res, err = p.FilterVariants(ctx, f)
			}
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return printJSON(filterSummary{
					Expression: expression,
					Scanned:    res.Scanned,
					IDs:        res.IDs,
					Rows:       res.Rows.ToArray(),
				})
			}
			for _, id := range res.IDs {
				fmt.Println(id)
			}
			return nil
		},
	}
}
