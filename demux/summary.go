package demux

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/grailbio/base/tsv"
)

// Summary is the final accounting of a demultiplexing run. It is pure
// presentation state: computed once from the drained count table and
// never fed back into the pipeline.
type Summary struct {
	Counts  SampleCountTable
	Elapsed time.Duration
}

// Total returns the number of records processed across all buckets.
func (s *Summary) Total() uint64 {
	var n uint64
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Unmatched returns the number of records routed to the Unmatched
// bucket.
func (s *Summary) Unmatched() uint64 { return s.Counts[Unmatched] }

// Matched returns the number of records assigned to a sample.
func (s *Summary) Matched() uint64 { return s.Total() - s.Unmatched() }

// sortedSamples returns the sample ids in descending count order,
// breaking ties by ascending name so the listing is stable.
func (s *Summary) sortedSamples() []string {
	ids := make([]string, 0, len(s.Counts))
	for id := range s.Counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := s.Counts[ids[i]], s.Counts[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	return ids
}

func percent(n, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// WriteReport renders the human-readable run summary: totals, match
// rate, and the per-sample breakdown in descending count order.
func (s *Summary) WriteReport(w io.Writer) error {
	total := s.Total()
	_, err := fmt.Fprintf(w, `Demultiplexing summary
Elapsed:       %.2fs
Total records: %d
Matched:       %d (%.2f%%)
Unmatched:     %d (%.2f%%)
`,
		s.Elapsed.Seconds(), total,
		s.Matched(), percent(s.Matched(), total),
		s.Unmatched(), percent(s.Unmatched(), total))
	if err != nil {
		return err
	}
	for _, id := range s.sortedSamples() {
		if id == Unmatched {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %-20s %10d (%.2f%%)\n", id, s.Counts[id], percent(s.Counts[id], total)); err != nil {
			return err
		}
	}
	return nil
}

// WriteTSV emits the count table as sample/count TSV rows, in the same
// order as WriteReport, for machine consumption.
func (s *Summary) WriteTSV(w io.Writer) error {
	out := tsv.NewWriter(w)
	out.WriteString("sample")
	out.WriteString("count")
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, id := range s.sortedSamples() {
		out.WriteString(id)
		out.WriteInt64(int64(s.Counts[id]))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
