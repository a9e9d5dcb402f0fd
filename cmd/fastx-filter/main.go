package main

/*
fastx-filter streams a FASTA/FASTQ file, keeping records whose
sequence length falls within the configured bounds. The output format
follows the input format.
*/

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/fastx/encoding/fastx"
	"github.com/grailbio/fastx/filter"
)

var (
	inputPath  = flag.String("input", "", "Input FASTA/FASTQ path; .gz is decoded transparently (required)")
	outputPath = flag.String("output", "", "Output path (default stdout)")
	minLen     = flag.Int("min-len", 0, "Drop sequences shorter than this")
	maxLen     = flag.Int("max-len", 0, "Drop sequences longer than this; 0 = unbounded")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -input reads.fastq[.gz] [-output kept.fastq] [-min-len N] [-max-len N]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *inputPath == "" {
		flag.Usage()
		log.Fatalf("-input is required")
	}
	ctx := vcontext.Background()
	sc, closeIn, err := fastx.Open(ctx, *inputPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var (
		w        io.Writer = os.Stdout
		closeOut           = func() error { return nil }
	)
	if *outputPath != "" {
		out, err := file.Create(ctx, *outputPath)
		if err != nil {
			log.Fatalf("create %s: %v", *outputPath, err)
		}
		w = out.Writer(ctx)
		closeOut = func() error { return out.Close(ctx) }
	}

	res, err := filter.Run(sc, fastx.NewWriter(w, sc.Format()), *minLen, *maxLen)
	e := errors.Once{}
	e.Set(err)
	e.Set(closeIn())
	e.Set(closeOut())
	if err := e.Err(); err != nil {
		log.Fatalf("filter: %v", err)
	}
	log.Printf("kept %d records, dropped %d", res.Kept, res.Dropped)
}
