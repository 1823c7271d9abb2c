package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/pgen"
)

func main() {
	prefix := flag.String("prefix", "example", "Prefix of the .pgen/.pvar/.psam fileset to process")
	flag.Parse()

	if strings.HasPrefix(*prefix, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*prefix = filepath.Join(usr.HomeDir, (*prefix)[2:])
	}

	ctx := context.Background()

	p, err := pgen.Open(ctx, *prefix)
	if err != nil {
		log.Fatalln(err)
	}
	defer p.Close()

	log.Printf("%+v\n", p.Descriptor)

	samples, err := p.ReadSamples(ctx)
	if err != nil {
		log.Println(err)
	} else {

		i := 0
		for _, sample := range samples {
			fmt.Println(i, sample.SampleID)
			i++

			if i > 10 {
				break
			}
		}
		if i > 0 {
			log.Println("Saw up to", samples[i-1].SampleID)
		}

		log.Println("Iterated over", i, "samples")
	}

	vr := p.NewVariantReader()
	for i := 1; ; i++ {
		rec := vr.Read()
		if rec == nil {
			break
		}

		if i > 10 {
			break
		}

		calls := rec.Genotypes
		if len(calls) > 10 {
			calls = calls[:10]
		}
		log.Println(i, rec.Row, calls)
	}

	if vr.Error() != nil {
		log.Println("VR error:", vr.Error())
	}
}
