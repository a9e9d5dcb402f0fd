package demux

import "github.com/grailbio/fastx/encoding/fastx"

// Classify assigns rec to a sample bucket. It returns the destination
// sample id (Unmatched if the read is too short to carry both tags or
// its tag pair is not in the index) and the output record.
//
// Matching is case-insensitive: the key is taken from the upper-cased
// first and last TagLength bytes of the sequence. Without trimming the
// record is returned unchanged. With trimming, a matched record is
// rebuilt from the interior slice between the tags; a Reverse match
// additionally reverse-complements the interior sequence and reverses
// (but does not complement) the interior quality, normalizing every
// output read to the forward strand.
//
// Classify is a pure function of rec and the index: identical input
// bytes always yield the identical classification and transformation,
// regardless of how work is scheduled. It never fails; malformed reads
// land in Unmatched.
func (x *TagIndex) Classify(rec *fastx.Record, trim bool) (string, fastx.Record) {
	seq := rec.Seq
	if len(seq) < 2*x.tagLen {
		return Unmatched, *rec
	}
	key := make([]byte, 0, 2*x.tagLen)
	key = appendUpper(key, seq[:x.tagLen])
	key = appendUpper(key, seq[len(seq)-x.tagLen:])
	mi, ok := x.lookup[string(key)]
	if !ok {
		return Unmatched, *rec
	}
	if !trim {
		return mi.SampleID, *rec
	}
	out := fastx.Record{ID: rec.ID, Desc: rec.Desc}
	out.Seq = append([]byte(nil), seq[x.tagLen:len(seq)-x.tagLen]...)
	if rec.Qual != nil {
		out.Qual = append([]byte(nil), rec.Qual[x.tagLen:len(rec.Qual)-x.tagLen]...)
	}
	if mi.Orientation == Reverse {
		reverseComplementInplace(out.Seq)
		reverseInplace(out.Qual)
	}
	return mi.SampleID, out
}

func appendUpper(dst, src []byte) []byte {
	for _, b := range src {
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		dst = append(dst, b)
	}
	return dst
}
