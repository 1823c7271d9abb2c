package main

import (
	"context"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/carbocation/pgen/pvar"
)

type infoRow struct {
	Row    int               `json:"row"`
	ID     string            `json:"id"`
	Fields map[string]string `json:"info"`
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print the parsed INFO cell of every .pvar row",
		ArgsUsage: "<prefix>",
		Flags: append(pfileFlags(),
			&cli.StringSliceFlag{Name: "key", Aliases: []string{"k"}, Usage: "only print these keys"},
			&cli.StringFlag{Name: "flag", Usage: "only print rows where this flag is set, e.g. EX_TARGET"},
			&cli.BoolFlag{Name: "json", Usage: "print one JSON object per row"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, _, err := openPfile(ctx, c, LoadConfig())
			if err != nil {
				return err
			}
			defer p.Close()

			keys := c.StringSlice("key")
			flag := c.String("flag")
			asJSON := c.Bool("json")

			return p.EachInfo(ctx, func(row int, id string, fields pvar.InfoFields) error {
				if flag != "" && !fields.IsFlag(flag) {
					return nil
				}
				if len(keys) > 0 {
					kept := make(pvar.InfoFields, len(keys))
					for _, k := range keys {
						if v, ok := fields.Value(k); ok {
							kept[k] = v
						}
					}
					fields = kept
				}

				if asJSON {
					b, err := gojson.Marshal(infoRow{Row: row, ID: id, Fields: fields})
					if err != nil {
						return err
					}
					fmt.Println(string(b))
					return nil
				}

				parts := make([]string, 0, len(fields))
				for _, k := range fields.Keys() {
					if v := fields[k]; v != "" {
						parts = append(parts, k+"="+v)
					} else {
						parts = append(parts, k)
					}
				}
				fmt.Printf("%s\t%s\n", id, strings.Join(parts, ";"))
				return nil
			})
		},
	}
}
