package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TaxIDKind distinguishes the two Brazilian taxpayer identifiers.
type TaxIDKind string

const (
	// TaxIDCNPJ is the 14-digit legal-entity identifier.
	TaxIDCNPJ TaxIDKind = "CNPJ"
	// TaxIDCPF is the 11-digit individual identifier.
	TaxIDCPF TaxIDKind = "CPF"
)

// TaxID holds a CPF or CNPJ as raw digits. Punctuation is a presentation
// concern and is never stored.
type TaxID struct {
	Kind   TaxIDKind `json:"kind"`
	Digits string    `json:"digits"`
}

// NewTaxID classifies a digit string by length: 11 digits is a CPF,
// 14 digits is a CNPJ. The input must already be digits only.
func NewTaxID(digits string) (TaxID, error) {
	switch len(digits) {
	case 11:
		return TaxID{Kind: TaxIDCPF, Digits: digits}, nil
	case 14:
		return TaxID{Kind: TaxIDCNPJ, Digits: digits}, nil
	default:
		return TaxID{}, fmt.Errorf("tax id must have 11 or 14 digits, got %d", len(digits))
	}
}

func (t TaxID) String() string {
	return t.Digits
}

// Formatted returns the identifier with conventional punctuation
// (00.000.000/0000-00 for CNPJ, 000.000.000-00 for CPF). Display only.
func (t TaxID) Formatted() string {
	d := t.Digits
	switch t.Kind {
	case TaxIDCNPJ:
		if len(d) == 14 {
			return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
		}
	case TaxIDCPF:
		if len(d) == 11 {
			return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
		}
	}
	return d
}

// Party is one side of a service invoice: the provider rendering the
// service or the recipient receiving it.
type Party struct {
	LegalName string `json:"legal_name"`
	TaxID     TaxID  `json:"tax_id"`
}

// Invoice is a normalized NFS-e record. It is built once by the extractor
// and never mutated afterwards.
type Invoice struct {
	Number             string          `json:"number"`
	IssueDate          time.Time       `json:"issue_date"`
	Provider           Party           `json:"provider"`
	Recipient          Party           `json:"recipient"`
	TotalServiceValue  decimal.Decimal `json:"total_service_value"`
	ServiceDescription string          `json:"service_description,omitempty"`
}

// Validate checks the invoice invariants: non-empty number, non-negative
// total and well-formed tax ids on both parties.
func (inv *Invoice) Validate() error {
	if inv.Number == "" {
		return NewValidationError("number", nil, "required", "invoice number is empty")
	}
	if inv.TotalServiceValue.IsNegative() {
		return NewValidationError("totalServiceValue", inv.TotalServiceValue.String(), "non_negative", "total service value is negative")
	}
	for _, p := range []struct {
		name  string
		party Party
	}{
		{"provider", inv.Provider},
		{"recipient", inv.Recipient},
	} {
		if p.party.LegalName == "" {
			return NewValidationError(p.name+".legalName", nil, "required", "legal name is empty")
		}
		if _, err := NewTaxID(p.party.TaxID.Digits); err != nil {
			return NewValidationError(p.name+".taxId", p.party.TaxID.Digits, "digits", err.Error())
		}
	}
	return nil
}
