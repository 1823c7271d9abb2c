package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/pgen"
)

func main() {
	prefix := flag.String("prefix", "", "Prefix of the .pgen/.pvar/.psam fileset to process")
	idxPath := flag.String("index", "", "Filename of the SQLite variant index (built if missing)")
	ids := flag.String("variants", "", "Comma-separated variant IDs to look up")
	flag.Parse()

	if *prefix == "" {
		flag.PrintDefaults()
		log.Fatalln("No prefix given")
	}

	if strings.HasPrefix(*prefix, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*prefix = filepath.Join(usr.HomeDir, (*prefix)[2:])
	}

	if *idxPath == "" {
		*idxPath = pgen.DefaultVariantIndexPath(*prefix)
	}

	ctx := context.Background()

	log.Println("Opening pgen:", *prefix)
	p, err := pgen.Open(ctx, *prefix)
	if err != nil {
		log.Fatalln(err)
	}
	defer p.Close()

	if _, err := os.Stat(*idxPath); os.IsNotExist(err) {
		log.Println("Building index with", pgen.WhichSQLiteDriver(), "at", *idxPath)
		if err := pgen.BuildVariantIndex(ctx, p, *idxPath); err != nil {
			log.Fatalln(err)
		}
	}

	ix, err := pgen.OpenVariantIndex(*idxPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer ix.Close()

	log.Printf("Index Metadata: %+v\n", ix.Metadata)
	log.Printf("PGEN data: %+v\n", p.Descriptor)

	rows, err := ix.DB.Queryx("SELECT * FROM Variant ORDER BY chromosome ASC, position ASC")
	if err != nil {
		log.Fatalln(err)
	}
	defer rows.Close()
	i := 0
	var row pgen.VariantIndexRow
	for rows.Next() {
		if err := rows.StructScan(&row); err != nil {
			log.Fatalln(err)
		}
		if i%30 == 0 {
			fmt.Printf("%d) %+v\n", i, row)
		}
		i++
	}
	rows.Close()

	log.Println("Saw indexes for", i, "variants")

	if *ids == "" {
		return
	}

	q := pgen.Query{
		VariantIDs: strings.Split(*ids, ","),
		AllSamples: true,
		Index:      ix,
	}
	if err := p.WriteVCF(ctx, os.Stdout, q); err != nil {
		log.Fatalln(err)
	}
}
