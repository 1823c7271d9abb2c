package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:      "pgen2vcf",
		Usage:     "Export PLINK2 .pgen/.pvar/.psam filesets as VCF",
		ArgsUsage: "<command> <prefix>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			convertCmd(),
			headerCmd(),
			indexCmd(),
			describeCmd(),
			infoCmd(),
			filterCmd(),
			bimCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
