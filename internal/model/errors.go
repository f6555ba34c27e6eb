package model

import "fmt"

// FailureKind classifies why a file could not be turned into an Invoice.
type FailureKind string

const (
	// FailureIO means the file could not be read (or the run was cancelled
	// before it was).
	FailureIO FailureKind = "io_error"
	// FailureMalformedXML means no element tree could be built.
	FailureMalformedXML FailureKind = "malformed_xml"
	// FailureMissingField means a required field was absent after the alias
	// search.
	FailureMissingField FailureKind = "missing_field"
	// FailureDateFormat means a date value was present but unparseable.
	FailureDateFormat FailureKind = "date_format"
	// FailureNumberFormat means an amount was present but not a
	// non-negative number.
	FailureNumberFormat FailureKind = "number_format"
	// FailureTaxIDFormat means a tax id did not have 11 or 14 digits.
	FailureTaxIDFormat FailureKind = "tax_id_format"
)

// ExtractionError is the single failure attached to a file that could not
// be processed. Exactly one is reported per file.
type ExtractionError struct {
	Kind    FailureKind
	Field   string
	Value   string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	switch {
	case e.Field != "" && e.Value != "":
		return fmt.Sprintf("[%s] %s: %s (value=%q)", e.Kind, e.Field, e.Message, e.Value)
	case e.Field != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Field, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewIOError wraps a filesystem failure for one file.
func NewIOError(message string, cause error) *ExtractionError {
	return &ExtractionError{Kind: FailureIO, Message: message, Cause: cause}
}

// NewMalformedXMLError reports input that could not be parsed into a tree.
func NewMalformedXMLError(message string, cause error) *ExtractionError {
	return &ExtractionError{Kind: FailureMalformedXML, Message: message, Cause: cause}
}

// NewMissingFieldError reports a required field absent under every alias.
func NewMissingFieldError(field string) *ExtractionError {
	return &ExtractionError{Kind: FailureMissingField, Field: field, Message: "required field not found"}
}

// NewDateFormatError reports an unparseable date value.
func NewDateFormatError(field, value string) *ExtractionError {
	return &ExtractionError{Kind: FailureDateFormat, Field: field, Value: value, Message: "unrecognized date format"}
}

// NewNumberFormatError reports a negative or non-numeric amount.
func NewNumberFormatError(field, value, message string) *ExtractionError {
	return &ExtractionError{Kind: FailureNumberFormat, Field: field, Value: value, Message: message}
}

// NewTaxIDFormatError reports a tax id with the wrong digit count.
func NewTaxIDFormatError(field, value string) *ExtractionError {
	return &ExtractionError{Kind: FailureTaxIDFormat, Field: field, Value: value, Message: "tax id must have 11 (CPF) or 14 (CNPJ) digits"}
}

// ValidationError represents an invariant violation on a built Invoice.
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
