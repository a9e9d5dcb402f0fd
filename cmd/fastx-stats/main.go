package main

/*
fastx-stats prints sequence count and length statistics for a
FASTA/FASTQ file.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/fastx/encoding/fastx"
	"github.com/grailbio/fastx/stats"
)

var inputPath = flag.String("input", "", "Input FASTA/FASTQ path; .gz is decoded transparently (required)")

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -input reads.fastq[.gz]\n", os.Args[0])
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
	s, err := stats.Collect(sc)
	if err != nil {
		log.Fatalf("%s: %v", *inputPath, err)
	}
	if err := closeIn(); err != nil {
		log.Fatalf("close %s: %v", *inputPath, err)
	}
	if err := s.WriteReport(os.Stdout); err != nil {
		log.Fatalf("writing report: %v", err)
	}
}
