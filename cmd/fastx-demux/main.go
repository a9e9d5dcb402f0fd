package main

/*
fastx-demux splits a FASTA/FASTQ file into per-sample files by the
barcode tag pair embedded at the ends of each read. Samples and their
tags come from a CSV or TSV table with SampleID, F_tag and R_tag
columns; reads whose tag pair is unknown go to unmatched.<ext>.
*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/fastx/demux"
	"github.com/grailbio/fastx/encoding/fastx"
)

var (
	inputPath   = flag.String("input", "", "Input FASTA/FASTQ path; .gz is decoded transparently (required)")
	outputDir   = flag.String("output-dir", "", "Directory for per-sample outputs, created if absent (required)")
	tagPath     = flag.String("tags", "", "Sample tag table (CSV or TSV with SampleID, F_tag, R_tag columns) (required)")
	tagLen      = flag.Int("tag-len", demux.DefaultOpts.TagLength, "Tag length in bases")
	chunkSize   = flag.Int("chunk-size", demux.DefaultOpts.ChunkSize, "Records per unit of work")
	parallelism = flag.Int("parallelism", 0, "Number of worker goroutines; 0 = runtime.NumCPU()")
	trim        = flag.Bool("trim", false, "Trim tags off matched records and normalize reverse matches to the forward strand")
	outFasta    = flag.Bool("out-fasta", false, "Write FASTA outputs instead of FASTQ")
)

const countsFile = "demux_counts.tsv"

// progressInterval is the read-count granularity of progress logging.
const progressInterval = 1 << 20

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -input reads.fastq[.gz] -tags tags.csv -output-dir out [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *inputPath == "" || *outputDir == "" || *tagPath == "" {
		flag.Usage()
		log.Fatalf("-input, -output-dir and -tags are all required")
	}
	ctx := vcontext.Background()

	index, err := demux.LoadTagIndex(ctx, *tagPath, *tagLen)
	if err != nil {
		log.Fatalf("loading tags: %v", err)
	}
	log.Printf("loaded %d samples from %s", len(index.Samples()), *tagPath)

	sc, closeIn, err := fastx.Open(ctx, *inputPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	opts := demux.Opts{
		TagLength:    *tagLen,
		ChunkSize:    *chunkSize,
		Parallelism:  *parallelism,
		Trim:         *trim,
		OutputFormat: fastx.FASTQ,
	}
	if *outFasta {
		opts.OutputFormat = fastx.FASTA
	}
	var lastLogged uint64
	opts.Progress = func(n uint64) {
		if n-lastLogged >= progressInterval {
			log.Printf("read %d records", n)
			lastLogged = n
		}
	}

	summary, err := demux.Demux(ctx, index, sc, *outputDir, opts)
	e := errors.Once{}
	e.Set(err)
	e.Set(closeIn())
	if err := e.Err(); err != nil {
		log.Fatalf("demux: %v", err)
	}

	if err := summary.WriteReport(os.Stdout); err != nil {
		log.Fatalf("writing summary: %v", err)
	}
	if err := writeCounts(ctx, filepath.Join(*outputDir, countsFile), summary); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("done: results in %s", *outputDir)
}

// writeCounts drops a machine-readable copy of the count table next to
// the per-sample outputs.
func writeCounts(ctx context.Context, path string, summary *demux.Summary) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create "+path)
	}
	e := errors.Once{}
	e.Set(summary.WriteTSV(out.Writer(ctx)))
	e.Set(out.Close(ctx))
	return e.Err()
}
