package filter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/fastx/encoding/fastx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const in = "@r1\nAC\n+\nII\n@r2\nACGTAC\n+\nIIIIII\n@r3\nACGTACGTAC\n+\nIIIIIIIIII\n"

func runFilter(t *testing.T, minLen, maxLen int) (Result, string) {
	var buf bytes.Buffer
	sc := fastx.NewScanner(strings.NewReader(in))
	res, err := Run(sc, fastx.NewWriter(&buf, fastx.FASTQ), minLen, maxLen)
	require.NoError(t, err)
	return res, buf.String()
}

func TestRunUnbounded(t *testing.T) {
	res, out := runFilter(t, 0, 0)
	assert.Equal(t, Result{Kept: 3, Dropped: 0}, res)
	assert.Equal(t, in, out)
}

func TestRunMinLen(t *testing.T) {
	res, out := runFilter(t, 3, 0)
	assert.Equal(t, Result{Kept: 2, Dropped: 1}, res)
	assert.NotContains(t, out, "@r1")
}

func TestRunRange(t *testing.T) {
	res, out := runFilter(t, 3, 8)
	assert.Equal(t, Result{Kept: 1, Dropped: 2}, res)
	assert.Contains(t, out, "@r2")
}

func TestRunScanError(t *testing.T) {
	sc := fastx.NewScanner(strings.NewReader("@r1\nACGT\n"))
	var buf bytes.Buffer
	_, err := Run(sc, fastx.NewWriter(&buf, fastx.FASTQ), 0, 0)
	require.Error(t, err)
}
