// Package demux implements a concurrent barcode demultiplexer for
// FASTA/FASTQ read files. Reads carry a sample-identifying tag pair: a
// forward tag at the start of the read and the reverse complement of a
// reverse tag at its end. The package classifies every read into
// exactly one per-sample output (or "unmatched"), optionally trimming
// the tags and normalizing reverse-oriented reads to the forward
// strand.
//
// The pipeline is a single reader goroutine feeding fixed-size record
// chunks to a pool of worker goroutines over a bounded channel, with a
// single writer goroutine draining classified chunks to per-sample
// files. The bounded channels propagate writer backpressure all the
// way to the reader, so in-flight memory stays O(channel depth x chunk
// size) regardless of input size.
package demux

import "github.com/grailbio/fastx/encoding/fastx"

// Opts configures a demultiplexing run.
type Opts struct {
	// TagLength is the length, in bases, of both the forward and the
	// reverse tag.
	TagLength int
	// ChunkSize is the number of records per unit of work handed to the
	// worker pool.
	ChunkSize int
	// Parallelism is the number of worker goroutines. <= 0 means
	// runtime.NumCPU().
	Parallelism int
	// Trim removes the tag bases from both ends of matched records and
	// reverse-complements reverse-oriented matches so every output read
	// is on the forward strand.
	Trim bool
	// OutputFormat selects the per-sample output representation.
	// Quality data is dropped when writing FASTA; FASTQ output of
	// quality-less input fails.
	OutputFormat fastx.Format
	// Progress, if non-nil, is invoked from the reader with the total
	// number of records read so far, once per chunk.
	Progress func(recordsRead uint64)
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	TagLength:    8,
	ChunkSize:    8192,
	Parallelism:  0,
	OutputFormat: fastx.FASTQ,
}
