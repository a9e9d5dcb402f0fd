package fastx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fq = `@read1 1:N:0:ATCACG
ACGTACGTNNACGT
+
IIIIIIIIIIIIII
@read2
TTTTGGGGCCCCAAAA
+read2
AAAAEEEEEEEE####
`

const fa = `>seq1 first sequence
ACGTACGT
ACGT
>seq2
TTTT
`

func stringScanner(s string) *Scanner {
	return NewScanner(bytes.NewReader([]byte(s)))
}

func scanAll(t *testing.T, s string) []Record {
	sc := stringScanner(s)
	var (
		recs []Record
		r    Record
	)
	for sc.Scan(&r) {
		recs = append(recs, r)
		r = Record{}
	}
	require.NoError(t, sc.Err())
	return recs
}

func scanErr(s string) error {
	sc := stringScanner(s)
	var r Record
	for sc.Scan(&r) {
	}
	return sc.Err()
}

func TestFASTQ(t *testing.T) {
	sc := stringScanner(fq)
	assert.Equal(t, FASTQ, sc.Format())
	recs := scanAll(t, fq)
	require.Len(t, recs, 2)
	assert.Equal(t, "read1", recs[0].ID)
	assert.Equal(t, "1:N:0:ATCACG", recs[0].Desc)
	assert.Equal(t, []byte("ACGTACGTNNACGT"), recs[0].Seq)
	assert.Equal(t, []byte("IIIIIIIIIIIIII"), recs[0].Qual)
	assert.Equal(t, "read2", recs[1].ID)
	assert.Equal(t, "", recs[1].Desc)
	assert.Equal(t, len(recs[1].Seq), len(recs[1].Qual))
}

func TestFASTAMultiline(t *testing.T) {
	sc := stringScanner(fa)
	assert.Equal(t, FASTA, sc.Format())
	recs := scanAll(t, fa)
	require.Len(t, recs, 2)
	assert.Equal(t, "seq1", recs[0].ID)
	assert.Equal(t, "first sequence", recs[0].Desc)
	assert.Equal(t, []byte("ACGTACGTACGT"), recs[0].Seq)
	assert.Nil(t, recs[0].Qual)
	assert.Equal(t, "seq2", recs[1].ID)
	assert.Equal(t, []byte("TTTT"), recs[1].Seq)
}

func TestFASTANoTrailingNewline(t *testing.T) {
	recs := scanAll(t, ">s\nACGT")
	require.Len(t, recs, 1)
	assert.Equal(t, []byte("ACGT"), recs[0].Seq)
}

func TestDetectErrors(t *testing.T) {
	assert.Equal(t, ErrUnknownFormat, scanErr(""))
	assert.Equal(t, ErrUnknownFormat, scanErr("ACGT\n"))
}

func TestFASTQFraming(t *testing.T) {
	assert.Equal(t, ErrShort, scanErr("@r1\nACGT\n"))
	assert.Equal(t, ErrShort, scanErr("@r1\nACGT\n+\n"))
	assert.Equal(t, ErrInvalid, scanErr("@r1\nACGT\nIIII\nACGT\n"))
	// Quality shorter than sequence.
	assert.Equal(t, ErrInvalid, scanErr("@r1\nACGT\n+\nII\n"))
	// Second record header missing its marker.
	assert.Equal(t, ErrInvalid, scanErr("@r1\nACGT\n+\nIIII\nr2\nACGT\n+\nIIII\n"))
}

func TestScanAfterFalse(t *testing.T) {
	sc := stringScanner("@r1\nACGT\n+\nIIII\n")
	var r Record
	for sc.Scan(&r) {
	}
	require.NoError(t, sc.Err())
	assert.False(t, sc.Scan(&r))
}
