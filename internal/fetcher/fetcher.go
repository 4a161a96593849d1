package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/iter"

	"photo-timeline/internal/logging"
	"photo-timeline/internal/metadata"
	"photo-timeline/internal/metrics"
	"photo-timeline/internal/workers"
)

// ErrDecoderPanic is wrapped into a Result when the decoder panicked.
var ErrDecoderPanic = errors.New("metadata decoder panicked")

// DefaultMaxWorkers caps the pool when Options.Workers is zero.
const DefaultMaxWorkers = 16

// Decoder turns a file into its raw metadata tags.
type Decoder interface {
	Decode(ctx context.Context, ref metadata.FileRef) (metadata.RawTags, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, ref metadata.FileRef) (metadata.RawTags, error)

// Decode calls f(ctx, ref).
func (f DecoderFunc) Decode(ctx context.Context, ref metadata.FileRef) (metadata.RawTags, error) {
	return f(ctx, ref)
}

// Result is the outcome of fetching one file. Record is always populated;
// when Err is set it carries the default metadata.
type Result struct {
	Record metadata.PhotoRecord
	Err    error
}

// OK reports whether the decode succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Options configures a Fetcher.
type Options struct {
	// Workers bounds concurrent decodes. Zero sizes the pool with workers.ForIO.
	Workers int
	// Resolver interprets raw tags. Nil resolves zone-less dates in UTC.
	Resolver *metadata.Resolver
	// OnProgress is called once per completed file with the number of files
	// done so far. It may be called from several goroutines at once.
	OnProgress func(done, total int)
}

// Fetcher runs decodes for a batch of files.
type Fetcher struct {
	decoder    Decoder
	workers    int
	resolver   *metadata.Resolver
	onProgress func(done, total int)
}

// New creates a Fetcher around dec.
func New(dec Decoder, opts Options) *Fetcher {
	n := opts.Workers
	if n <= 0 {
		n = workers.ForIO(DefaultMaxWorkers)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = metadata.NewResolver(time.UTC)
	}
	return &Fetcher{
		decoder:    dec,
		workers:    n,
		resolver:   resolver,
		onProgress: opts.OnProgress,
	}
}

// Workers returns the size of the decode pool.
func (f *Fetcher) Workers() int {
	return f.workers
}

// Fetch decodes every ref and returns one Result per ref, in input order.
// Once ctx is done, files that have not started decoding fail with the
// context error.
func (f *Fetcher) Fetch(ctx context.Context, refs []metadata.FileRef) []Result {
	if len(refs) == 0 {
		return []Result{}
	}

	total := len(refs)
	var done atomic.Int64

	mapper := iter.Mapper[metadata.FileRef, Result]{MaxGoroutines: f.workers}
	return mapper.Map(refs, func(ref *metadata.FileRef) Result {
		res := f.fetch(ctx, *ref)
		if f.onProgress != nil {
			f.onProgress(int(done.Add(1)), total)
		}
		return res
	})
}

// FetchAll is Fetch reduced to the records.
func (f *Fetcher) FetchAll(ctx context.Context, refs []metadata.FileRef) []metadata.PhotoRecord {
	results := f.Fetch(ctx, refs)
	records := make([]metadata.PhotoRecord, len(results))
	for i, r := range results {
		records[i] = r.Record
	}
	return records
}

// FetchOne decodes a single file and returns the decode error, if any,
// alongside the record.
func (f *Fetcher) FetchOne(ctx context.Context, ref metadata.FileRef) (metadata.PhotoRecord, error) {
	res := f.fetch(ctx, ref)
	return res.Record, res.Err
}

func (f *Fetcher) fetch(ctx context.Context, ref metadata.FileRef) Result {
	if err := ctx.Err(); err != nil {
		metrics.DecodesTotal.WithLabelValues("failure").Inc()
		return Result{Record: metadata.NewRecord(ref, metadata.NormalizedMetadata{}), Err: err}
	}

	start := time.Now()
	raw, err := f.decode(ctx, ref)
	metrics.DecodeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.DecodesTotal.WithLabelValues("failure").Inc()
		logging.Debug("Metadata decode failed for %s: %v", ref.Filename, err)
		return Result{Record: metadata.NewRecord(ref, metadata.NormalizedMetadata{}), Err: err}
	}

	metrics.DecodesTotal.WithLabelValues("success").Inc()
	return Result{Record: metadata.NewRecord(ref, f.resolver.Resolve(raw))}
}

func (f *Fetcher) decode(ctx context.Context, ref metadata.FileRef) (raw metadata.RawTags, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw = nil
			err = fmt.Errorf("%w: %s: %v", ErrDecoderPanic, ref.Filename, r)
		}
	}()
	return f.decoder.Decode(ctx, ref)
}
