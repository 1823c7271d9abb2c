package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type infoDescription struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func describeCmd() *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "List the ##INFO descriptions of the .pvar header",
		ArgsUsage: "<prefix>",
		Flags: append(pfileFlags(),
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
			&cli.BoolFlag{Name: "ids", Usage: "print only the INFO IDs"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, _, err := openPfile(ctx, c, LoadConfig())
			if err != nil {
				return err
			}
			defer p.Close()

			metas, err := p.InfoDescriptions(ctx)
			if err != nil {
				return err
			}

			switch {
			case c.Bool("json"):
				out := make([]infoDescription, 0, len(metas))
				for _, m := range metas {
					out = append(out, infoDescription{ID: m.ID, Description: m.Description, Fields: m.Fields})
				}
				return printJSON(out)
			case c.Bool("ids"):
				for _, m := range metas {
					fmt.Println(m.ID)
				}
			default:
				for _, m := range metas {
					fmt.Println(m.Markdown())
				}
			}
			return nil
		},
	}
}
