package demux

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Unmatched is the sentinel destination for records that fail the
// length or tag-lookup criteria. Such records are never dropped or
// rejected; they are routed here.
const Unmatched = "unmatched"

// Orientation reports whether a read's tag layout matches the
// canonical forward-tag-first arrangement or its reverse complement.
type Orientation uint8

const (
	// Forward reads begin with the forward tag and end with the reverse
	// complement of the reverse tag.
	Forward Orientation = iota
	// Reverse reads are the reverse complement of the forward layout:
	// they begin with the reverse tag and end with the reverse
	// complement of the forward tag.
	Reverse
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	if o == Forward {
		return "forward"
	}
	return "reverse"
}

// MatchInfo is the classification outcome for one lookup key.
type MatchInfo struct {
	SampleID    string
	Orientation Orientation
}

// TagIndex maps the (read prefix, read suffix) byte pair of a read to
// the sample it belongs to. It is built once from a tag table and is
// immutable thereafter, so it may be shared by any number of
// goroutines without synchronization.
type TagIndex struct {
	tagLen  int
	lookup  map[string]MatchInfo
	samples []string
}

// TagLength returns the configured tag length in bases.
func (x *TagIndex) TagLength() int { return x.tagLen }

// Samples returns the distinct sample ids seen in the tag table,
// sorted. The sentinel Unmatched bucket is not included.
func (x *TagIndex) Samples() []string {
	return append([]string(nil), x.samples...)
}

// tagColumns are the required tag table columns, located by name.
var tagColumns = []string{"SampleID", "F_tag", "R_tag"}

// LoadTagIndex reads the tag table at path and builds a TagIndex; see
// BuildTagIndex for the table format.
func LoadTagIndex(ctx context.Context, path string, tagLen int) (*TagIndex, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open tag file "+path)
	}
	index, err := BuildTagIndex(in.Reader(ctx), tagLen)
	if err != nil {
		err = errors.E(err, "tag file "+path)
	}
	e := errors.Once{}
	e.Set(err)
	e.Set(in.Close(ctx))
	return index, e.Err()
}

// BuildTagIndex parses a delimited tag table and builds the lookup
// index. The table must have a header row naming at least the columns
// SampleID, F_tag and R_tag, in any order; extra columns are ignored.
// The delimiter is a tab or a comma, sniffed from the header row. Tag
// values are case-folded to uppercase and must both have length
// tagLen.
//
// Each row contributes two keys: the forward key
// (F_tag, revcomp(R_tag)) and the reverse key (R_tag, revcomp(F_tag)).
// The reverse key is the reverse complement of the entire forward read
// layout F_tag + insert + revcomp(R_tag), i.e. a reverse-oriented read
// begins with the literal reverse tag and ends with the reverse
// complement of the forward tag. If two rows define the same key, the
// later row wins.
func BuildTagIndex(r io.Reader, tagLen int) (*TagIndex, error) {
	if tagLen <= 0 {
		return nil, errors.E(fmt.Sprintf("tag length must be positive, got %d", tagLen))
	}
	br := bufio.NewReader(r)
	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.E(err, "reading tag table header")
	}
	if strings.TrimSpace(headerLine) == "" {
		return nil, errors.E("empty tag table")
	}
	delim := byte(',')
	if strings.IndexByte(headerLine, '\t') >= 0 {
		delim = '\t'
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	cr.Comma = rune(delim)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.E(err, "reading tag table header")
	}
	colIdx := make(map[string]int, len(tagColumns))
	for _, want := range tagColumns {
		found := -1
		for i, h := range header {
			if strings.TrimSpace(h) == want {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, errors.E(fmt.Sprintf("missing required column %q (have %v)", want, header))
		}
		colIdx[want] = found
	}

	index := &TagIndex{
		tagLen: tagLen,
		lookup: make(map[string]MatchInfo),
	}
	seen := map[string]bool{}
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("tag table row %d", row))
		}
		get := func(col string) (string, error) {
			i := colIdx[col]
			if i >= len(fields) {
				return "", errors.E(fmt.Sprintf("tag table row %d: missing field %q", row, col))
			}
			return strings.TrimSpace(fields[i]), nil
		}
		sampleID, err := get("SampleID")
		if err != nil {
			return nil, err
		}
		fs, err := get("F_tag")
		if err != nil {
			return nil, err
		}
		rs, err := get("R_tag")
		if err != nil {
			return nil, err
		}
		fTag := bytes.ToUpper([]byte(fs))
		rTag := bytes.ToUpper([]byte(rs))
		if len(fTag) != tagLen || len(rTag) != tagLen {
			return nil, errors.E(fmt.Sprintf(
				"sample %q: tag lengths (%d, %d) do not match the configured tag length %d",
				sampleID, len(fTag), len(rTag), tagLen))
		}
		if !seen[sampleID] {
			seen[sampleID] = true
			index.samples = append(index.samples, sampleID)
		}
		fTagRC := make([]byte, tagLen)
		rTagRC := make([]byte, tagLen)
		reverseComplement(fTagRC, fTag)
		reverseComplement(rTagRC, rTag)
		index.lookup[lookupKey(fTag, rTagRC)] = MatchInfo{SampleID: sampleID, Orientation: Forward}
		index.lookup[lookupKey(rTag, fTagRC)] = MatchInfo{SampleID: sampleID, Orientation: Reverse}
	}
	sort.Strings(index.samples)
	return index, nil
}

// lookupKey concatenates a read prefix and suffix into the index key.
// Equality is exact byte equality.
func lookupKey(prefix, suffix []byte) string {
	key := make([]byte, 0, len(prefix)+len(suffix))
	key = append(key, prefix...)
	key = append(key, suffix...)
	return string(key)
}
