package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/carbocation/pfx"
	"github.com/carbocation/pgen"
)

func pfileFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "pvar", Usage: "override the .pvar location"},
		&cli.StringFlag{Name: "psam", Usage: "override the .psam location"},
		&cli.BoolFlag{Name: "mmap", Usage: "memory-map a local .pgen"},
	}, loggingFlags()...)
}

// openPfile opens the fileset named by the first positional argument.
func openPfile(ctx context.Context, c *cli.Command, cfg Config) (*pgen.PGEN, *slog.Logger, error) {
	logger, err := newLogger(c, cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	prefix := c.Args().First()
	if prefix == "" {
		return nil, nil, errors.New("missing <prefix> argument (e.g. data/chr22 for data/chr22.pgen)")
	}
	prefix = strings.TrimSuffix(prefix, ".pgen")

	opts := []pgen.Option{pgen.WithLogger(logger)}
	if boolSetting(c, "mmap", cfg.Mmap) {
		opts = append(opts, pgen.WithMmap())
	}
	if path := c.String("pvar"); path != "" {
		opts = append(opts, pgen.WithPvarPath(path))
	}
	if path := c.String("psam"); path != "" {
		opts = append(opts, pgen.WithPsamPath(path))
	}

	p, err := pgen.Open(ctx, prefix, opts...)
	if err != nil {
		return nil, nil, err
	}
	return p, logger, nil
}

// readIDFile reads one id per line. Blank lines and lines starting with '#'
// are skipped.
func readIDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	return ids, nil
}

func printJSON(v any) error {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return pfx.Err(err)
	}
	b = append(b, '\n')
	_, err = os.Stdout.Write(b)
	return err
}
