package demux

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/fastx/encoding/fastx"
)

// SampleCountTable maps a sample id (including Unmatched) to the
// number of records routed to it. It is mutated only by the writer
// stage and read only after the pipeline has drained.
type SampleCountTable map[string]uint64

// A processedChunk groups one raw chunk's records by destination
// sample, preserving the records' relative order within the chunk.
type processedChunk map[string][]fastx.Record

// Demux runs the demultiplexing pipeline: it drains src in chunks,
// classifies every record against index with opts.Parallelism workers,
// and writes each record to <outDir>/<sample>.<ext>, eagerly creating
// one output per sample in the index plus Unmatched. outDir is created
// if absent.
//
// Per-record classification is deterministic, so the returned counts
// do not depend on parallelism or scheduling; the interleaving of
// different chunks within one output file does.
//
// On a fatal error in any stage, no new chunks are read, work already
// queued is drained so output files stay internally consistent, and
// the first error is returned with no summary.
func Demux(ctx context.Context, index *TagIndex, src *fastx.Scanner, outDir string, opts Opts) (*Summary, error) {
	start := time.Now()
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultOpts.ChunkSize
	}
	if err := os.MkdirAll(outDir, 0775); err != nil {
		return nil, errors.E(err, "create output directory "+outDir)
	}
	samples := append(index.Samples(), Unmatched)

	var (
		rawCh  = make(chan []fastx.Record, 2*parallelism)
		procCh = make(chan processedChunk, 2*parallelism)
		// stop is closed by the writer on a fatal downstream error. The
		// reader then stops producing; chunks already queued still drain.
		stop = make(chan struct{})

		errOnce = errors.Once{}
		wg      sync.WaitGroup
		counts  SampleCountTable
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		counts, err = runWriter(ctx, procCh, stop, outDir, samples, opts.OutputFormat)
		errOnce.Set(err)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errOnce.Set(traverse.Each(parallelism, func(_ int) error {
			runWorker(index, rawCh, procCh, stop, opts.Trim)
			return nil
		}))
		close(procCh)
	}()

	errOnce.Set(runReader(src, rawCh, stop, chunkSize, opts.Progress))
	close(rawCh)
	wg.Wait()

	if err := errOnce.Err(); err != nil {
		return nil, err
	}
	return &Summary{Counts: counts, Elapsed: time.Since(start)}, nil
}

// runReader drains src into chunks of up to chunkSize records, in
// source order, and publishes them to rawCh. The final chunk may be
// smaller; an empty chunk is never published. On a decode error the
// reader aborts immediately: the error is surfaced and no record past
// it is read.
func runReader(src *fastx.Scanner, rawCh chan<- []fastx.Record, stop <-chan struct{}, chunkSize int, progress func(uint64)) error {
	var nRead uint64
	for {
		chunk := make([]fastx.Record, 0, chunkSize)
		for len(chunk) < chunkSize {
			var rec fastx.Record
			if !src.Scan(&rec) {
				break
			}
			chunk = append(chunk, rec)
		}
		if err := src.Err(); err != nil {
			return errors.E(err, "reading records")
		}
		if len(chunk) == 0 {
			return nil
		}
		nRead += uint64(len(chunk))
		select {
		case rawCh <- chunk:
		case <-stop:
			// The writer failed; it reports the error.
			return nil
		}
		if progress != nil {
			progress(nRead)
		}
	}
}

// runWorker consumes raw chunks, classifies every record, and
// publishes the per-sample grouping. Records within a chunk are
// independent; their per-sample relative order is preserved.
func runWorker(index *TagIndex, rawCh <-chan []fastx.Record, procCh chan<- processedChunk, stop <-chan struct{}, trim bool) {
	for chunk := range rawCh {
		pc := make(processedChunk)
		for i := range chunk {
			sample, rec := index.Classify(&chunk[i], trim)
			pc[sample] = append(pc[sample], rec)
		}
		if len(pc) == 0 {
			continue
		}
		select {
		case procCh <- pc:
		case <-stop:
			// Keep draining rawCh so the reader is never blocked on a
			// dead pipeline; results are discarded.
		}
	}
}

// runWriter is the single consumer of processed chunks. It exclusively
// owns every output handle and the count table, so neither needs
// locks. On a fatal error it closes stop and keeps draining procCh,
// discarding chunks, to unblock the upstream stages.
func runWriter(ctx context.Context, procCh <-chan processedChunk, stop chan<- struct{}, outDir string, samples []string, format fastx.Format) (SampleCountTable, error) {
	type handle struct {
		f file.File
		w *fastx.Writer
	}
	var (
		handles = make(map[string]*handle, len(samples))
		counts  = make(SampleCountTable, len(samples))
		err     error
	)
	fail := func(e error) {
		if err == nil && e != nil {
			err = e
			close(stop)
		}
	}

	// Open every output before any record flows.
	for _, sample := range samples {
		path := filepath.Join(outDir, sample+"."+format.Extension())
		f, e := file.Create(ctx, path)
		if e != nil {
			fail(errors.E(e, "create "+path))
			break
		}
		handles[sample] = &handle{f: f, w: fastx.NewWriter(f.Writer(ctx), format)}
	}

	for pc := range procCh {
		if err != nil {
			continue // drain
		}
		for sample, recs := range pc {
			h, ok := handles[sample]
			if !ok {
				fail(errors.E(fmt.Sprintf("processed chunk names unknown sample %q", sample)))
				break
			}
			counts[sample] += uint64(len(recs))
			for i := range recs {
				if e := h.w.Write(&recs[i]); e != nil {
					fail(errors.E(e, "writing sample "+sample))
					break
				}
			}
			if err != nil {
				break
			}
		}
	}

	closeErr := errors.Once{}
	for _, h := range handles {
		closeErr.Set(h.w.Flush())
		closeErr.Set(h.f.Close(ctx))
	}
	if err == nil {
		err = closeErr.Err()
	}
	if err != nil {
		return nil, err
	}
	return counts, nil
}
