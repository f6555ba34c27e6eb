package extractor

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the alias tables that absorb schema variance across
// municipal NFS-e layouts. Each field lists element names in priority
// order; the first alias found anywhere in the invoice sub-tree wins,
// regardless of document order. The value is immutable once handed to an
// Extractor.
type Config struct {
	// InvoiceRoots are the element names that mark the start of one
	// invoice record.
	InvoiceRoots []string `yaml:"invoice_roots"`

	// Per-field element-name aliases, scoped to the invoice sub-tree.
	Number             []string `yaml:"number"`
	IssueDate          []string `yaml:"issue_date"`
	TotalServiceValue  []string `yaml:"total_service_value"`
	ServiceDescription []string `yaml:"service_description"`

	// Party containers and the aliases resolved inside them.
	Provider  []string `yaml:"provider"`
	Recipient []string `yaml:"recipient"`
	LegalName []string `yaml:"legal_name"`
	TaxID     []string `yaml:"tax_id"`

	// DateLayouts are tried in order against the issue-date text.
	DateLayouts []string `yaml:"date_layouts"`
}

// DefaultConfig returns the alias tables for the ABRASF national NFS-e
// model and the variants observed in municipal samples. Jurisdictions
// with exotic element names are handled by a YAML override, not code.
func DefaultConfig() Config {
	return Config{
		InvoiceRoots:       []string{"InfNfse", "InfDeclaracaoPrestacaoServico", "InfRps", "Nfse"},
		Number:             []string{"Numero", "NumeroNfse", "NumeroNota"},
		IssueDate:          []string{"DataEmissao", "DtEmissao", "DataEmissaoRps"},
		TotalServiceValue:  []string{"ValorServicos", "ValorServico", "ValorTotalServicos"},
		ServiceDescription: []string{"Discriminacao", "DiscriminacaoServico", "Descricao"},
		Provider:           []string{"PrestadorServico", "Prestador", "DadosPrestador"},
		Recipient:          []string{"TomadorServico", "Tomador", "DadosTomador"},
		LegalName:          []string{"RazaoSocial", "NomeRazaoSocial", "Nome"},
		TaxID:              []string{"Cnpj", "Cpf", "CpfCnpj"},
		DateLayouts: []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02",
			"02/01/2006",
		},
	}
}

// LoadConfig reads alias tables from a YAML file. Fields left out of the
// file keep their defaults, so an override only needs to name what
// actually differs in the target jurisdiction.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read schema config: %w", err)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse schema config: %w", err)
	}

	applyConfigDefaults(&cfg)
	return cfg, nil
}

func applyConfigDefaults(cfg *Config) {
	def := DefaultConfig()
	if len(cfg.InvoiceRoots) == 0 {
		cfg.InvoiceRoots = def.InvoiceRoots
	}
	if len(cfg.Number) == 0 {
		cfg.Number = def.Number
	}
	if len(cfg.IssueDate) == 0 {
		cfg.IssueDate = def.IssueDate
	}
	if len(cfg.TotalServiceValue) == 0 {
		cfg.TotalServiceValue = def.TotalServiceValue
	}
	if len(cfg.ServiceDescription) == 0 {
		cfg.ServiceDescription = def.ServiceDescription
	}
	if len(cfg.Provider) == 0 {
		cfg.Provider = def.Provider
	}
	if len(cfg.Recipient) == 0 {
		cfg.Recipient = def.Recipient
	}
	if len(cfg.LegalName) == 0 {
		cfg.LegalName = def.LegalName
	}
	if len(cfg.TaxID) == 0 {
		cfg.TaxID = def.TaxID
	}
	if len(cfg.DateLayouts) == 0 {
		cfg.DateLayouts = def.DateLayouts
	}
}
