package model

// ProcessingResult is the outcome for one input file: either an Invoice or
// the single failure that stopped its extraction. Created once by the
// batch processor and never mutated.
type ProcessingResult struct {
	SourcePath string           `json:"source_path"`
	Invoice    *Invoice         `json:"invoice,omitempty"`
	Err        *ExtractionError `json:"-"`
	Reason     string           `json:"error,omitempty"`
}

// Success reports whether the file produced an invoice.
func (r ProcessingResult) Success() bool {
	return r.Err == nil
}

// NewSuccessResult records an extracted invoice for a file.
func NewSuccessResult(sourcePath string, inv *Invoice) ProcessingResult {
	return ProcessingResult{SourcePath: sourcePath, Invoice: inv}
}

// NewFailureResult records the failure that stopped a file.
func NewFailureResult(sourcePath string, err *ExtractionError) ProcessingResult {
	return ProcessingResult{SourcePath: sourcePath, Err: err, Reason: err.Error()}
}

// Batch is the ordered outcome of one process invocation. Result order
// matches the order the input paths were supplied, never completion order.
type Batch struct {
	ID        string             `json:"id"`
	Results   []ProcessingResult `json:"results"`
	Successes int                `json:"successes"`
	Failures  int                `json:"failures"`
}

// Diagnostic reports a directory that could not be listed during path
// collection. It is distinct from a per-file failure: the entry never made
// it into the batch.
type Diagnostic struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (d Diagnostic) String() string {
	return d.Path + ": " + d.Err.Error()
}
