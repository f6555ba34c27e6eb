// Package nfselib provides a public API for processing Brazilian NFS-e
// documents.
//
// This package exposes the core types for collecting, parsing, and
// extracting data from municipal service invoice XML files.
//
// Example usage:
//
//	proc := nfselib.NewDefaultProcessor()
//	batch := proc.ProcessPaths(ctx, []string{"notas/"})
//	for _, r := range batch.Results {
//	    if r.Success() {
//	        fmt.Println(r.Invoice.Number, r.Invoice.TotalServiceValue)
//	    }
//	}
package nfselib

import "github.com/rezonia/nfse-processor/internal/model"

// Re-export core types for public API
type (
	Invoice          = model.Invoice
	Party            = model.Party
	TaxID            = model.TaxID
	TaxIDKind        = model.TaxIDKind
	ProcessingResult = model.ProcessingResult
	Batch            = model.Batch
	Diagnostic       = model.Diagnostic
)

// Re-export tax identifier kinds
const (
	TaxIDCNPJ = model.TaxIDCNPJ
	TaxIDCPF  = model.TaxIDCPF
)

// Re-export error types
type (
	ExtractionError = model.ExtractionError
	ValidationError = model.ValidationError
	FailureKind     = model.FailureKind
)

// Re-export failure kinds
const (
	FailureIO           = model.FailureIO
	FailureMalformedXML = model.FailureMalformedXML
	FailureMissingField = model.FailureMissingField
	FailureDateFormat   = model.FailureDateFormat
	FailureNumberFormat = model.FailureNumberFormat
	FailureTaxIDFormat  = model.FailureTaxIDFormat
)
