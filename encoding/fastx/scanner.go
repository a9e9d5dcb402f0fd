package fastx

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

var (
	// ErrShort is returned when a truncated FASTQ record is encountered.
	ErrShort = errors.New("short FASTX file")
	// ErrInvalid is returned when record framing is malformed.
	ErrInvalid = errors.New("invalid FASTX file")
	// ErrUnknownFormat is returned when the input is empty or does not
	// start with '>' or '@'.
	ErrUnknownFormat = errors.New("unrecognized FASTX format: input must begin with '>' (FASTA) or '@' (FASTQ)")
)

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTA or FASTQ
// data. The format is detected from the first byte of the stream. The
// Scan method returns the next record, returning a boolean indicating
// whether the read succeeded. Scanners are not threadsafe.
//
// FASTA sequences may span multiple lines; FASTQ records must be
// strict four-line groups. Scanner requires FASTQ quality strings to
// be the same length as their sequence, but performs no further
// validation (e.g., of the sequence alphabet).
type Scanner struct {
	r       *bufio.Reader
	format  Format
	err     error
	pending []byte // buffered FASTA header for the next record
}

// NewScanner constructs a new Scanner that reads FASTA or FASTQ data
// from the provided reader. A format detection error is reported by
// the first Scan call and by Err.
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{r: bufio.NewReader(r)}
	b, err := s.r.Peek(1)
	if err != nil {
		s.err = ErrUnknownFormat
		return s
	}
	switch b[0] {
	case '>':
		s.format = FASTA
	case '@':
		s.format = FASTQ
	default:
		s.err = ErrUnknownFormat
	}
	return s
}

// Format returns the detected input format. It is meaningless if the
// scanner failed to detect one; check Err.
func (s *Scanner) Format() Format { return s.format }

// Scan the next record into rec. Scan returns a boolean indicating
// whether the scan succeeded. Once Scan returns false, it never
// returns true again. Upon completion, the user should check the Err
// method to determine whether scanning stopped because of an error or
// because the end of the stream was reached.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	if s.format == FASTQ {
		return s.scanFASTQ(rec)
	}
	return s.scanFASTA(rec)
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// line reads the next line, stripping the trailing newline. It returns
// false at end of stream or on error, recording atEOF as the scanner
// error for a clean end of stream.
func (s *Scanner) line(atEOF error) ([]byte, bool) {
	b, err := s.r.ReadBytes('\n')
	if len(b) == 0 {
		if err == io.EOF {
			s.err = atEOF
		} else if err != nil {
			s.err = err
		} else {
			s.err = ErrInvalid
		}
		return nil, false
	}
	if err != nil && err != io.EOF {
		s.err = err
		return nil, false
	}
	return bytes.TrimRight(b, "\r\n"), true
}

func (s *Scanner) scanFASTQ(rec *Record) bool {
	id, ok := s.line(errEOF)
	if !ok {
		return false
	}
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	rec.ID, rec.Desc = splitHeader(id[1:])
	seq, ok := s.line(ErrShort)
	if !ok {
		return false
	}
	rec.Seq = append([]byte(nil), seq...)
	plus, ok := s.line(ErrShort)
	if !ok {
		return false
	}
	if len(plus) == 0 || plus[0] != '+' {
		s.err = ErrInvalid
		return false
	}
	qual, ok := s.line(ErrShort)
	if !ok {
		return false
	}
	if len(qual) != len(seq) {
		s.err = ErrInvalid
		return false
	}
	rec.Qual = append([]byte(nil), qual...)
	return true
}

func (s *Scanner) scanFASTA(rec *Record) bool {
	header := s.pending
	s.pending = nil
	if header == nil {
		var ok bool
		if header, ok = s.line(errEOF); !ok {
			return false
		}
	}
	if len(header) == 0 || header[0] != '>' {
		s.err = ErrInvalid
		return false
	}
	rec.ID, rec.Desc = splitHeader(header[1:])
	rec.Qual = nil
	var seq []byte
	for {
		line, ok := s.line(errEOF)
		if !ok {
			if s.err != errEOF {
				return false
			}
			// Clean end of stream; the accumulated sequence stands and
			// the next Scan reports exhaustion.
			s.err = nil
			break
		}
		if len(line) > 0 && line[0] == '>' {
			s.pending = line
			break
		}
		seq = append(seq, line...)
	}
	rec.Seq = seq
	return true
}

func splitHeader(b []byte) (id, desc string) {
	h := string(b)
	if i := strings.IndexByte(h, ' '); i >= 0 {
		return h[:i], h[i+1:]
	}
	return h, ""
}
