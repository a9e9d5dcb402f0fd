package demux

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, table string, tagLen int) *TagIndex {
	index, err := BuildTagIndex(strings.NewReader(table), tagLen)
	require.NoError(t, err)
	return index
}

func TestBuildTagIndexCSV(t *testing.T) {
	index := buildIndex(t, `SampleID,F_tag,R_tag
A,ACGTACGT,TTGGCCAA
B,AAAACCCC,GGGGTTTT
`, 8)
	assert.Equal(t, []string{"A", "B"}, index.Samples())
	assert.Equal(t, 8, index.TagLength())

	// Forward key: (F, revcomp(R)).
	mi, ok := index.lookup[lookupKey([]byte("ACGTACGT"), []byte(revcomp("TTGGCCAA")))]
	require.True(t, ok)
	assert.Equal(t, MatchInfo{SampleID: "A", Orientation: Forward}, mi)

	// Reverse key: (R, revcomp(F)) -- the reverse complement of the
	// whole forward read layout.
	mi, ok = index.lookup[lookupKey([]byte("TTGGCCAA"), []byte(revcomp("ACGTACGT")))]
	require.True(t, ok)
	assert.Equal(t, MatchInfo{SampleID: "A", Orientation: Reverse}, mi)
}

func TestBuildTagIndexTSVColumnsReordered(t *testing.T) {
	index := buildIndex(t, "extra\tR_tag\tSampleID\tF_tag\nx\tTTGGCCAA\tA\tACGTACGT\n", 8)
	assert.Equal(t, []string{"A"}, index.Samples())
	_, ok := index.lookup[lookupKey([]byte("ACGTACGT"), []byte(revcomp("TTGGCCAA")))]
	assert.True(t, ok)
}

func TestBuildTagIndexCaseFold(t *testing.T) {
	index := buildIndex(t, "SampleID,F_tag,R_tag\nA,acgtacgt,ttggccaa\n", 8)
	_, ok := index.lookup[lookupKey([]byte("ACGTACGT"), []byte(revcomp("TTGGCCAA")))]
	assert.True(t, ok)
}

func TestBuildTagIndexMissingColumn(t *testing.T) {
	_, err := BuildTagIndex(strings.NewReader("SampleID,F_tag\nA,ACGTACGT\n"), 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R_tag")
}

func TestBuildTagIndexMissingField(t *testing.T) {
	_, err := BuildTagIndex(strings.NewReader("SampleID\tF_tag\tR_tag\nA\tACGTACGT\n"), 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R_tag")
	assert.Contains(t, err.Error(), "row 1")
}

func TestBuildTagIndexTagLengthMismatch(t *testing.T) {
	_, err := BuildTagIndex(strings.NewReader("SampleID,F_tag,R_tag\nA,ACGTACGT,TTGGCCAA\nB,ACGT,TTGGCCAA\n"), 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"B"`)
}

func TestBuildTagIndexEmpty(t *testing.T) {
	_, err := BuildTagIndex(strings.NewReader(""), 8)
	require.Error(t, err)
}

func TestBuildTagIndexDuplicateKeyLastWins(t *testing.T) {
	index := buildIndex(t, `SampleID,F_tag,R_tag
A,ACGTACGT,TTGGCCAA
B,ACGTACGT,TTGGCCAA
`, 8)
	mi := index.lookup[lookupKey([]byte("ACGTACGT"), []byte(revcomp("TTGGCCAA")))]
	assert.Equal(t, "B", mi.SampleID)
	assert.Equal(t, []string{"A", "B"}, index.Samples())
}

func TestBuildTagIndexSampleWithTwoTagPairs(t *testing.T) {
	index := buildIndex(t, `SampleID,F_tag,R_tag
A,ACGTACGT,TTGGCCAA
A,AAAACCCC,GGGGTTTT
`, 8)
	assert.Equal(t, []string{"A"}, index.Samples())
	assert.Len(t, index.lookup, 4)
}
