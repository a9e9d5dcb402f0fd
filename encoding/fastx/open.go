package fastx

import (
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Open opens the sequence file at path for scanning, transparently
// decompressing it when the path carries a recognized compressed-file
// suffix (e.g. ".gz"). The returned closer must be called once
// scanning is done.
func Open(ctx context.Context, path string) (*Scanner, func() error, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open "+path)
	}
	var (
		r io.Reader = in.Reader(ctx)
		u io.ReadCloser
	)
	if u = compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	closer := func() error {
		e := errors.Once{}
		if u != nil {
			e.Set(u.Close())
		}
		e.Set(in.Close(ctx))
		return e.Err()
	}
	return NewScanner(r), closer, nil
}
