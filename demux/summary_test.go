package demux

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryTotals(t *testing.T) {
	s := &Summary{Counts: SampleCountTable{"A": 3, "B": 5, Unmatched: 2}}
	assert.Equal(t, uint64(10), s.Total())
	assert.Equal(t, uint64(8), s.Matched())
	assert.Equal(t, uint64(2), s.Unmatched())
}

func TestSummaryEmpty(t *testing.T) {
	s := &Summary{Counts: SampleCountTable{}}
	assert.Equal(t, uint64(0), s.Total())
	var buf bytes.Buffer
	require.NoError(t, s.WriteReport(&buf))
	assert.Contains(t, buf.String(), "Total records: 0")
}

func TestSummaryReportOrder(t *testing.T) {
	s := &Summary{
		Counts:  SampleCountTable{"low": 1, "high": 7, "mid": 3, "alsoMid": 3, Unmatched: 2},
		Elapsed: 1500 * time.Millisecond,
	}
	var buf bytes.Buffer
	require.NoError(t, s.WriteReport(&buf))
	report := buf.String()
	// Descending by count, name ascending on ties; unmatched is only in
	// the header lines.
	hi := strings.Index(report, "  high")
	am := strings.Index(report, "  alsoMid")
	mi := strings.Index(report, "  mid")
	lo := strings.Index(report, "  low")
	require.True(t, hi >= 0 && am >= 0 && mi >= 0 && lo >= 0, report)
	assert.True(t, hi < am && am < mi && mi < lo, report)
}

func TestSummaryTSV(t *testing.T) {
	s := &Summary{Counts: SampleCountTable{"A": 3, Unmatched: 1}}
	var buf bytes.Buffer
	require.NoError(t, s.WriteTSV(&buf))
	assert.Equal(t, "sample\tcount\nA\t3\nunmatched\t1\n", buf.String())
}
