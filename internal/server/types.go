package server

import "github.com/rezonia/nfse-processor/internal/model"

// ExtractResponse is the response for the extract endpoint. A file may
// carry several invoices (ListaNfse responses), so the result is a list.
type ExtractResponse struct {
	Invoices []*model.Invoice `json:"invoices"`
}

// BatchRequest names server-local files or directories to process.
type BatchRequest struct {
	Entries     []string `json:"entries"`
	Concurrency int      `json:"concurrency,omitempty"`
}

// BatchResponse is the response for the batch endpoint.
type BatchResponse struct {
	Batch       *model.Batch `json:"batch"`
	Diagnostics []string     `json:"diagnostics,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}
