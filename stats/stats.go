// Package stats computes sequence length statistics over a
// FASTA/FASTQ stream.
package stats

import (
	"fmt"
	"io"

	"github.com/grailbio/fastx/encoding/fastx"
	"github.com/pkg/errors"
)

// Stats summarizes the sequence lengths of one input stream.
type Stats struct {
	Records    uint64
	TotalBases uint64
	MinLen     int
	MaxLen     int
}

// MeanLen returns the mean sequence length, or 0 for an empty input.
func (s Stats) MeanLen() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.TotalBases) / float64(s.Records)
}

// Collect scans sc to exhaustion and accumulates length statistics.
func Collect(sc *fastx.Scanner) (Stats, error) {
	var (
		s   Stats
		rec fastx.Record
	)
	for sc.Scan(&rec) {
		n := len(rec.Seq)
		if s.Records == 0 || n < s.MinLen {
			s.MinLen = n
		}
		if n > s.MaxLen {
			s.MaxLen = n
		}
		s.Records++
		s.TotalBases += uint64(n)
	}
	if err := sc.Err(); err != nil {
		return s, errors.Wrap(err, "collecting sequence stats")
	}
	return s, nil
}

// WriteReport renders the statistics in a human-readable form.
func (s Stats) WriteReport(w io.Writer) error {
	if s.Records == 0 {
		_, err := fmt.Fprintln(w, "no sequences found")
		return err
	}
	_, err := fmt.Fprintf(w, `Total sequences: %d
Total bases:     %d
Min length:      %d
Max length:      %d
Mean length:     %.2f
`, s.Records, s.TotalBases, s.MinLen, s.MaxLen, s.MeanLen())
	return err
}
