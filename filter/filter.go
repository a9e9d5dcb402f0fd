// Package filter streams FASTA/FASTQ records, keeping those whose
// sequence length falls within a configured range.
package filter

import (
	"github.com/grailbio/fastx/encoding/fastx"
	"github.com/pkg/errors"
)

// Result reports how many records a filtering pass kept and dropped.
type Result struct {
	Kept    uint64
	Dropped uint64
}

// Run copies records from sc to w, keeping those with
// minLen <= len(seq) <= maxLen. maxLen <= 0 means unbounded above.
func Run(sc *fastx.Scanner, w *fastx.Writer, minLen, maxLen int) (Result, error) {
	var (
		res Result
		rec fastx.Record
	)
	for sc.Scan(&rec) {
		n := len(rec.Seq)
		if n < minLen || (maxLen > 0 && n > maxLen) {
			res.Dropped++
			continue
		}
		if err := w.Write(&rec); err != nil {
			return res, errors.Wrap(err, "writing filtered record")
		}
		res.Kept++
	}
	if err := sc.Err(); err != nil {
		return res, errors.Wrap(err, "reading records")
	}
	return res, errors.Wrap(w.Flush(), "flushing output")
}
