package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type headerSummary struct {
	Path        string `json:"path"`
	PvarPath    string `json:"pvar"`
	PsamPath    string `json:"psam"`
	StorageMode string `json:"storage_mode"`
	Variants    uint32 `json:"variants"`
	Samples     uint32 `json:"samples"`
	RecordSize  int64  `json:"record_size"`
	Flags       byte   `json:"flags"`
}

func headerCmd() *cli.Command {
	return &cli.Command{
		Name:      "header",
		Usage:     "Validate the .pgen preamble and print its dimensions",
		ArgsUsage: "<prefix>",
		Flags: append(pfileFlags(),
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, _, err := openPfile(ctx, c, LoadConfig())
			if err != nil {
				return err
			}
			defer p.Close()

			s := headerSummary{
				Path:        p.PgenPath(),
				PvarPath:    p.PvarPath,
				PsamPath:    p.PsamPath,
				StorageMode: p.StorageMode.String(),
				Variants:    p.NVariants,
				Samples:     p.NSamples,
				RecordSize:  p.RecordSize(),
				Flags:       p.Flags,
			}
			if c.Bool("json") {
				return printJSON(s)
			}

			fmt.Printf("pgen:         %s\n", s.Path)
			fmt.Printf("pvar:         %s\n", s.PvarPath)
			fmt.Printf("psam:         %s\n", s.PsamPath)
			fmt.Printf("storage mode: %s\n", s.StorageMode)
			fmt.Printf("variants:     %d\n", s.Variants)
			fmt.Printf("samples:      %d\n", s.Samples)
			fmt.Printf("record size:  %d bytes\n", s.RecordSize)
			fmt.Printf("flags:        %#02x\n", s.Flags)
			return nil
		},
	}
}
