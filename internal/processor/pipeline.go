// Package processor drives the per-file read, parse and extract pipeline
// over a batch of paths. Files are independent: a failure in one never
// affects another, and results always come back in input order no matter
// how the work was scheduled.
package processor

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/nfse-processor/internal/extractor"
	"github.com/rezonia/nfse-processor/internal/logger"
	"github.com/rezonia/nfse-processor/internal/model"
	"github.com/rezonia/nfse-processor/internal/xmltree"
)

// Pipeline processes invoice files into ProcessingResults.
type Pipeline struct {
	extractor   *extractor.Extractor
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtractor replaces the default ABRASF extractor, e.g. with one
// built from a jurisdiction-specific schema config.
func WithExtractor(e *extractor.Extractor) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithConcurrency bounds the number of files processed at once.
// Values below 1 mean sequential processing.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   extractor.NewDefault(),
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency < 1 {
		p.concurrency = 1
	}
	return p
}

// ProcessFile runs read -> parse -> extract for one path. Every failure
// mode ends up as a typed failure result; nothing panics and no partial
// invoice is ever returned.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) model.ProcessingResult {
	if err := ctx.Err(); err != nil {
		return model.NewFailureResult(path, model.NewIOError("processing cancelled", err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.NewFailureResult(path, model.NewIOError("failed to read file", err))
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		return model.NewFailureResult(path, asExtractionError(err))
	}

	inv, err := p.extractor.Extract(root)
	if err != nil {
		return model.NewFailureResult(path, asExtractionError(err))
	}

	return model.NewSuccessResult(path, inv)
}

// ProcessBatch processes every path and returns exactly one result per
// input path, in input order. Workers write results by index, so the
// observable ordering is independent of completion order. Cancelling ctx
// keeps already-completed results and records the remaining paths as
// io_error failures.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) *model.Batch {
	results := make([]model.ProcessingResult, len(paths))

	// Plain errgroup, not WithContext: one file's failure must never
	// cancel its siblings.
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = p.ProcessFile(ctx, path)
			if results[i].Success() {
				logger.Debug("processed %s: invoice %s", path, results[i].Invoice.Number)
			} else {
				logger.Debug("processed %s: %s", path, results[i].Reason)
			}
			return nil
		})
	}
	_ = g.Wait()

	batch := &model.Batch{ID: uuid.NewString(), Results: results}
	for _, r := range results {
		if r.Success() {
			batch.Successes++
		} else {
			batch.Failures++
		}
	}

	logger.Info("batch %s: %d succeeded, %d failed", batch.ID, batch.Successes, batch.Failures)
	return batch
}

func asExtractionError(err error) *model.ExtractionError {
	var xerr *model.ExtractionError
	if errors.As(err, &xerr) {
		return xerr
	}
	return model.NewIOError("unexpected failure", err)
}
