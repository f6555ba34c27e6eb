// Package extractor turns a generic XML tree into a normalized Invoice.
// Schema variance is handled by alias tables (see Config), not by one
// struct per issuing authority: every field is resolved by trying its
// aliases in priority order with a depth-first search of the invoice
// sub-tree. Extraction stops at the first missing or malformed required
// field so exactly one reason is reported per file.
package extractor

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/nfse-processor/internal/model"
	"github.com/rezonia/nfse-processor/internal/xmltree"
)

// Extractor resolves invoice fields through its alias configuration.
// Safe for concurrent use; the configuration is never mutated.
type Extractor struct {
	cfg Config
}

// New creates an extractor with the given alias configuration.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// NewDefault creates an extractor with the default ABRASF alias tables.
func NewDefault() *Extractor {
	return New(DefaultConfig())
}

// Extract locates the first invoice sub-tree under root and builds its
// Invoice. The returned error is always a *model.ExtractionError.
func (e *Extractor) Extract(root *xmltree.Node) (*model.Invoice, error) {
	sub := root.FindAlias(e.cfg.InvoiceRoots)
	if sub == nil {
		return nil, &model.ExtractionError{
			Kind:    model.FailureMissingField,
			Field:   "invoice",
			Message: "no known invoice root element found",
		}
	}
	return e.extractOne(sub)
}

// ExtractAll builds an Invoice for every invoice sub-tree in the
// document. Municipal query responses (ListaNfse) carry several CompNfse
// blocks in one file; the batch contract still reports one result per
// file, but callers that want the full list get it here. The first
// failing invoice aborts with its failure.
func (e *Extractor) ExtractAll(root *xmltree.Node) ([]*model.Invoice, error) {
	var subs []*xmltree.Node
	for _, alias := range e.cfg.InvoiceRoots {
		if subs = root.FindAll(alias); len(subs) > 0 {
			break
		}
	}
	if len(subs) == 0 {
		return nil, &model.ExtractionError{
			Kind:    model.FailureMissingField,
			Field:   "invoice",
			Message: "no known invoice root element found",
		}
	}

	invoices := make([]*model.Invoice, 0, len(subs))
	for _, sub := range subs {
		inv, err := e.extractOne(sub)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// extractOne resolves fields in the order of the required-field contract
// so the first failure is deterministic.
func (e *Extractor) extractOne(sub *xmltree.Node) (*model.Invoice, error) {
	inv := &model.Invoice{}

	number := e.text(sub, e.cfg.Number)
	if number == "" {
		return nil, model.NewMissingFieldError("number")
	}
	inv.Number = number

	rawDate := e.text(sub, e.cfg.IssueDate)
	if rawDate == "" {
		return nil, model.NewMissingFieldError("issueDate")
	}
	date, ok := e.parseDate(rawDate)
	if !ok {
		return nil, model.NewDateFormatError("issueDate", rawDate)
	}
	inv.IssueDate = date

	provider, err := e.extractParty(sub, e.cfg.Provider, "provider")
	if err != nil {
		return nil, err
	}
	inv.Provider = provider

	recipient, err := e.extractParty(sub, e.cfg.Recipient, "recipient")
	if err != nil {
		return nil, err
	}
	inv.Recipient = recipient

	rawValue := e.text(sub, e.cfg.TotalServiceValue)
	if rawValue == "" {
		return nil, model.NewMissingFieldError("totalServiceValue")
	}
	value, perr := parseAmount(rawValue)
	if perr != nil {
		return nil, model.NewNumberFormatError("totalServiceValue", rawValue, "not a valid number")
	}
	if value.IsNegative() {
		return nil, model.NewNumberFormatError("totalServiceValue", rawValue, "negative value")
	}
	inv.TotalServiceValue = value

	// Optional, defaults to empty text.
	inv.ServiceDescription = e.text(sub, e.cfg.ServiceDescription)

	return inv, nil
}

// extractParty resolves one side of the invoice from its container node.
// field is "provider" or "recipient" and prefixes the failure names.
func (e *Extractor) extractParty(sub *xmltree.Node, containers []string, field string) (model.Party, error) {
	party := sub.FindAlias(containers)
	if party == nil {
		return model.Party{}, model.NewMissingFieldError(field + ".legalName")
	}

	name := e.text(party, e.cfg.LegalName)
	if name == "" {
		return model.Party{}, model.NewMissingFieldError(field + ".legalName")
	}

	node := party.FindAlias(e.cfg.TaxID)
	if node == nil || strings.TrimSpace(node.Text) == "" {
		return model.Party{}, model.NewMissingFieldError(field + ".taxId")
	}
	raw := strings.TrimSpace(node.Text)

	id, err := model.NewTaxID(stripNonDigits(raw))
	if err != nil {
		return model.Party{}, model.NewTaxIDFormatError(field+".taxId", raw)
	}

	return model.Party{LegalName: name, TaxID: id}, nil
}

// text resolves an alias list to trimmed text content. Empty after trim
// means missing.
func (e *Extractor) text(sub *xmltree.Node, aliases []string) string {
	node := sub.FindAlias(aliases)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.Text)
}

func (e *Extractor) parseDate(raw string) (time.Time, bool) {
	for _, layout := range e.cfg.DateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts both "." and "," as decimal separator, the latter
// being the local convention. When both occur, the one appearing last is
// the decimal separator and the other is a thousands separator; repeated
// occurrences of a single separator are thousands grouping.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot { // 1.500,00
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else { // 1,500.00
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 { // 1,500,000
			s = strings.ReplaceAll(s, ",", "")
		} else { // 1500,00
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0:
		if strings.Count(s, ".") > 1 { // 1.500.000
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return decimal.NewFromString(s)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
