package nfselib

import (
	"context"
	"io"

	"github.com/rezonia/nfse-processor/internal/collector"
	"github.com/rezonia/nfse-processor/internal/extractor"
	"github.com/rezonia/nfse-processor/internal/model"
	"github.com/rezonia/nfse-processor/internal/processor"
	"github.com/rezonia/nfse-processor/internal/xmltree"
)

// Options configures processor behavior
type Options struct {
	// Concurrency caps how many files are processed in parallel.
	// Zero means one worker per CPU.
	Concurrency int

	// SchemaConfigPath points to a YAML alias table for municipalities
	// whose XML layout the defaults do not cover. Empty uses the
	// ABRASF-style defaults.
	SchemaConfigPath string
}

// Processor extracts invoices from NFS-e XML files
type Processor struct {
	pipeline  *processor.Pipeline
	extractor *extractor.Extractor
}

// NewProcessor creates a new processor with the given options
func NewProcessor(opts Options) (*Processor, error) {
	ex := extractor.NewDefault()
	if opts.SchemaConfigPath != "" {
		cfg, err := extractor.LoadConfig(opts.SchemaConfigPath)
		if err != nil {
			return nil, err
		}
		ex = extractor.New(cfg)
	}

	pipeline := processor.NewPipeline(
		processor.WithExtractor(ex),
		processor.WithConcurrency(opts.Concurrency),
	)

	return &Processor{pipeline: pipeline, extractor: ex}, nil
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	p, _ := NewProcessor(Options{})
	return p
}

// CollectPaths expands files and directories into the ordered, deduplicated
// list of XML files that ProcessPaths would visit. Unreadable entries are
// reported as diagnostics, not errors.
func CollectPaths(entries []string) ([]string, []Diagnostic) {
	return collector.CollectPaths(entries)
}

// ProcessPaths collects XML files from the given files and directories
// and processes them as one batch.
func (p *Processor) ProcessPaths(ctx context.Context, entries []string) (*Batch, []Diagnostic) {
	paths, diags := collector.CollectPaths(entries)
	return p.pipeline.ProcessBatch(ctx, paths), diags
}

// ProcessFiles processes an explicit list of file paths as one batch.
// Results keep the input order, one per path.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) *Batch {
	return p.pipeline.ProcessBatch(ctx, paths)
}

// ProcessFile processes a single file. The result carries either the
// extracted invoice or the typed failure.
func (p *Processor) ProcessFile(ctx context.Context, path string) ProcessingResult {
	return p.pipeline.ProcessFile(ctx, path)
}

// Extract parses XML from r and extracts every invoice it carries.
func (p *Processor) Extract(r io.Reader) ([]*Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewIOError("failed to read input", err)
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}
	return p.extractor.ExtractAll(root)
}
