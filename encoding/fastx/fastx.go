// Package fastx provides streaming readers and writers for FASTA and
// FASTQ sequence files. The format of an input stream is detected from
// its first byte ('>' for FASTA, '@' for FASTQ), and gzip-compressed
// files are decoded transparently when opened by path.
package fastx

// Format identifies a sequence record encoding.
type Format int

const (
	// FASTA is the two-line (or wrapped) format without base qualities.
	FASTA Format = iota
	// FASTQ is the four-line format carrying per-base qualities.
	FASTQ
)

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	if f == FASTA {
		return "fasta"
	}
	return "fastq"
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if f == FASTA {
		return "FASTA"
	}
	return "FASTQ"
}

// A Record is a single sequence record. Qual is nil for records read
// from FASTA sources; when present, len(Qual) == len(Seq).
type Record struct {
	// ID is the record identifier, without the leading '>' or '@' and
	// without the description.
	ID string
	// Desc is the free-form remainder of the header line, if any.
	Desc string
	Seq  []byte
	Qual []byte
}

// Header returns the full header line payload: the ID followed by the
// description, if one is present.
func (r *Record) Header() string {
	if r.Desc == "" {
		return r.ID
	}
	return r.ID + " " + r.Desc
}
