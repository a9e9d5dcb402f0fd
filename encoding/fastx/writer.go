package fastx

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Writer is a buffered FASTA/FASTQ file writer. A record carrying
// quality data written in FASTA format has its quality dropped; a
// record without quality data cannot be written in FASTQ format and
// fails the write. Errors are sticky: after the first failure all
// subsequent writes report it.
type Writer struct {
	w      *bufio.Writer
	format Format
	err    error
}

// NewWriter constructs a new Writer that emits records to w in the
// given format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: bufio.NewWriter(w), format: format}
}

// Write writes the record r. An error is returned if the write failed.
func (w *Writer) Write(r *Record) error {
	if w.err != nil {
		return w.err
	}
	if w.format == FASTQ && r.Qual == nil {
		w.err = errors.Errorf("record %q has no quality data for FASTQ output", r.ID)
		return w.err
	}
	if w.format == FASTA {
		w.writeln('>', r.Header(), r.Seq)
		return w.err
	}
	w.writeln('@', r.Header(), r.Seq)
	w.writeln('+', "", r.Qual)
	return w.err
}

// Flush flushes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) writeln(marker byte, header string, body []byte) {
	if w.err != nil {
		return
	}
	set := func(e error) {
		if w.err == nil && e != nil {
			w.err = e
		}
	}
	set(w.w.WriteByte(marker))
	_, e := w.w.WriteString(header)
	set(e)
	set(w.w.WriteByte('\n'))
	_, e = w.w.Write(body)
	set(e)
	set(w.w.WriteByte('\n'))
}
