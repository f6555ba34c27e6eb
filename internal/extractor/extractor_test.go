package extractor_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/nfse-processor/internal/extractor"
	"github.com/rezonia/nfse-processor/internal/model"
	"github.com/rezonia/nfse-processor/internal/xmltree"
)

const sampleInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<ConsultarNfseResposta>
  <ListaNfse>
    <CompNfse>
      <Nfse>
        <InfNfse>
          <Numero>123</Numero>
          <DataEmissao>2024-03-10</DataEmissao>
          <Servico>
            <Valores>
              <ValorServicos>1500,00</ValorServicos>
            </Valores>
            <Discriminacao>Consultoria em TI</Discriminacao>
          </Servico>
          <PrestadorServico>
            <RazaoSocial>Empresa Prestadora LTDA</RazaoSocial>
            <IdentificacaoPrestador>
              <Cnpj>12.345.678/0001-90</Cnpj>
            </IdentificacaoPrestador>
          </PrestadorServico>
          <TomadorServico>
            <RazaoSocial>Fulano de Tal</RazaoSocial>
            <IdentificacaoTomador>
              <CpfCnpj>
                <Cpf>123.456.789-01</Cpf>
              </CpfCnpj>
            </IdentificacaoTomador>
          </TomadorServico>
        </InfNfse>
      </Nfse>
    </CompNfse>
  </ListaNfse>
</ConsultarNfseResposta>`

func parse(t *testing.T, content string) *xmltree.Node {
	t.Helper()
	root, err := xmltree.Parse([]byte(content))
	require.NoError(t, err)
	return root
}

func TestExtract_CompleteInvoice(t *testing.T) {
	ex := extractor.NewDefault()

	inv, err := ex.Extract(parse(t, sampleInvoice))
	require.NoError(t, err)

	assert.Equal(t, "123", inv.Number)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), inv.IssueDate)
	assert.True(t, inv.TotalServiceValue.Equal(decimal.RequireFromString("1500.00")),
		"expected 1500.00, got %s", inv.TotalServiceValue)
	assert.Equal(t, "Consultoria em TI", inv.ServiceDescription)

	assert.Equal(t, "Empresa Prestadora LTDA", inv.Provider.LegalName)
	assert.Equal(t, model.TaxIDCNPJ, inv.Provider.TaxID.Kind)
	assert.Equal(t, "12345678000190", inv.Provider.TaxID.Digits)

	assert.Equal(t, "Fulano de Tal", inv.Recipient.LegalName)
	assert.Equal(t, model.TaxIDCPF, inv.Recipient.TaxID.Kind)
	assert.Equal(t, "12345678901", inv.Recipient.TaxID.Digits)

	require.NoError(t, inv.Validate())
}

func minimalInvoice(valor string) string {
	return fmt.Sprintf(`<InfNfse>
  <Numero>77</Numero>
  <DataEmissao>2024-01-31T10:30:00</DataEmissao>
  <ValorServicos>%s</ValorServicos>
  <Prestador>
    <RazaoSocial>Prestadora SA</RazaoSocial>
    <Cnpj>12345678000190</Cnpj>
  </Prestador>
  <Tomador>
    <RazaoSocial>Tomadora ME</RazaoSocial>
    <Cnpj>98765432000121</Cnpj>
  </Tomador>
</InfNfse>`, valor)
}

func TestExtract_AmountFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "1500,00", want: "1500.00"},
		{raw: "1500.00", want: "1500.00"},
		{raw: "1.500,00", want: "1500.00"},
		{raw: "1,500.00", want: "1500.00"},
		{raw: "1.500.000,75", want: "1500000.75"},
		{raw: "0", want: "0"},
		{raw: "250", want: "250"},
	}

	ex := extractor.NewDefault()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			inv, err := ex.Extract(parse(t, minimalInvoice(tt.raw)))
			require.NoError(t, err)
			assert.True(t, inv.TotalServiceValue.Equal(decimal.RequireFromString(tt.want)),
				"raw %q: expected %s, got %s", tt.raw, tt.want, inv.TotalServiceValue)
		})
	}
}

func TestExtract_AmountFailures(t *testing.T) {
	ex := extractor.NewDefault()

	for _, raw := range []string{"abc", "-10,50", "12x"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ex.Extract(parse(t, minimalInvoice(raw)))
			require.Error(t, err)

			var xerr *model.ExtractionError
			require.ErrorAs(t, err, &xerr)
			assert.Equal(t, model.FailureNumberFormat, xerr.Kind)
			assert.Equal(t, "totalServiceValue", xerr.Field)
			assert.Equal(t, raw, xerr.Value)
		})
	}
}

func TestExtract_DateFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2024-03-10", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{raw: "2024-03-10T14:22:05", want: time.Date(2024, 3, 10, 14, 22, 5, 0, time.UTC)},
		{raw: "10/03/2024", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	ex := extractor.NewDefault()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			doc := `<InfNfse><Numero>1</Numero><DataEmissao>` + tt.raw + `</DataEmissao>` +
				`<ValorServicos>10</ValorServicos>` +
				`<Prestador><RazaoSocial>P</RazaoSocial><Cnpj>12345678000190</Cnpj></Prestador>` +
				`<Tomador><RazaoSocial>T</RazaoSocial><Cpf>12345678901</Cpf></Tomador></InfNfse>`
			inv, err := ex.Extract(parse(t, doc))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(inv.IssueDate), "raw %q: got %s", tt.raw, inv.IssueDate)
		})
	}
}

func TestExtract_BadDateIsDateFormatFailure(t *testing.T) {
	doc := `<InfNfse><Numero>1</Numero><DataEmissao>10 de março</DataEmissao>` +
		`<ValorServicos>10</ValorServicos></InfNfse>`

	_, err := extractor.NewDefault().Extract(parse(t, doc))
	require.Error(t, err)

	var xerr *model.ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, model.FailureDateFormat, xerr.Kind)
	assert.Equal(t, "issueDate", xerr.Field)
	assert.Equal(t, "10 de março", xerr.Value)
}

func TestExtract_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name: "missing totalServiceValue",
			doc: `<InfNfse><Numero>1</Numero><DataEmissao>2024-03-10</DataEmissao>` +
				`<Prestador><RazaoSocial>P</RazaoSocial><Cnpj>12345678000190</Cnpj></Prestador>` +
				`<Tomador><RazaoSocial>T</RazaoSocial><Cpf>12345678901</Cpf></Tomador></InfNfse>`,
			field: "totalServiceValue",
		},
		{
			name:  "missing number",
			doc:   `<InfNfse><DataEmissao>2024-03-10</DataEmissao><ValorServicos>10</ValorServicos></InfNfse>`,
			field: "number",
		},
		{
			name:  "empty number after trim",
			doc:   `<InfNfse><Numero>   </Numero><DataEmissao>2024-03-10</DataEmissao><ValorServicos>10</ValorServicos></InfNfse>`,
			field: "number",
		},
		{
			name:  "missing issueDate",
			doc:   `<InfNfse><Numero>1</Numero><ValorServicos>10</ValorServicos></InfNfse>`,
			field: "issueDate",
		},
		{
			name: "missing provider block",
			doc: `<InfNfse><Numero>1</Numero><DataEmissao>2024-03-10</DataEmissao>` +
				`<ValorServicos>10</ValorServicos></InfNfse>`,
			field: "provider.legalName",
		},
		{
			name: "missing recipient tax id",
			doc: `<InfNfse><Numero>1</Numero><DataEmissao>2024-03-10</DataEmissao>` +
				`<ValorServicos>10</ValorServicos>` +
				`<Prestador><RazaoSocial>P</RazaoSocial><Cnpj>12345678000190</Cnpj></Prestador>` +
				`<Tomador><RazaoSocial>T</RazaoSocial></Tomador></InfNfse>`,
			field: "recipient.taxId",
		},
	}

	ex := extractor.NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ex.Extract(parse(t, tt.doc))
			require.Error(t, err)

			var xerr *model.ExtractionError
			require.ErrorAs(t, err, &xerr)
			assert.Equal(t, model.FailureMissingField, xerr.Kind)
			assert.Equal(t, tt.field, xerr.Field)
		})
	}
}

func TestExtract_NineDigitTaxIDFails(t *testing.T) {
	doc := `<InfNfse><Numero>1</Numero><DataEmissao>2024-03-10</DataEmissao>` +
		`<ValorServicos>10</ValorServicos>` +
		`<Prestador><RazaoSocial>P</RazaoSocial><Cnpj>123456789</Cnpj></Prestador>` +
		`<Tomador><RazaoSocial>T</RazaoSocial><Cpf>12345678901</Cpf></Tomador></InfNfse>`

	_, err := extractor.NewDefault().Extract(parse(t, doc))
	require.Error(t, err)

	var xerr *model.ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, model.FailureTaxIDFormat, xerr.Kind)
	assert.Equal(t, "provider.taxId", xerr.Field)
}

func TestExtract_AliasPriorityBeatsDocumentOrder(t *testing.T) {
	// NumeroNota comes first in the document; Numero has higher priority.
	doc := `<InfNfse><NumeroNota>999</NumeroNota><Numero>123</Numero>` +
		`<DataEmissao>2024-03-10</DataEmissao><ValorServicos>10</ValorServicos>` +
		`<Prestador><RazaoSocial>P</RazaoSocial><Cnpj>12345678000190</Cnpj></Prestador>` +
		`<Tomador><RazaoSocial>T</RazaoSocial><Cpf>12345678901</Cpf></Tomador></InfNfse>`

	inv, err := extractor.NewDefault().Extract(parse(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "123", inv.Number)
}

func TestExtract_DescriptionOptional(t *testing.T) {
	inv, err := extractor.NewDefault().Extract(parse(t, minimalInvoice("10")))
	require.NoError(t, err)
	assert.Empty(t, inv.ServiceDescription)
}

func TestExtract_NoInvoiceRoot(t *testing.T) {
	_, err := extractor.NewDefault().Extract(parse(t, `<Outra><Coisa>1</Coisa></Outra>`))
	require.Error(t, err)

	var xerr *model.ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, model.FailureMissingField, xerr.Kind)
}

func TestExtractAll_MultipleInvoicesPerFile(t *testing.T) {
	doc := `<ConsultarNfseResposta><ListaNfse>` +
		`<CompNfse><Nfse><InfNfse><Numero>1</Numero><DataEmissao>2024-01-01</DataEmissao>` +
		`<ValorServicos>100,00</ValorServicos>` +
		`<Prestador><RazaoSocial>P</RazaoSocial><Cnpj>12345678000190</Cnpj></Prestador>` +
		`<Tomador><RazaoSocial>T</RazaoSocial><Cpf>12345678901</Cpf></Tomador>` +
		`</InfNfse></Nfse></CompNfse>` +
		`<CompNfse><Nfse><InfNfse><Numero>2</Numero><DataEmissao>2024-01-02</DataEmissao>` +
		`<ValorServicos>200,00</ValorServicos>` +
		`<Prestador><RazaoSocial>P</RazaoSocial><Cnpj>12345678000190</Cnpj></Prestador>` +
		`<Tomador><RazaoSocial>T2</RazaoSocial><Cpf>12345678901</Cpf></Tomador>` +
		`</InfNfse></Nfse></CompNfse>` +
		`</ListaNfse></ConsultarNfseResposta>`

	ex := extractor.NewDefault()

	invoices, err := ex.ExtractAll(parse(t, doc))
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "1", invoices[0].Number)
	assert.Equal(t, "2", invoices[1].Number)

	// Extract keeps the single-invoice contract: first sub-tree wins.
	first, err := ex.Extract(parse(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "1", first.Number)
}
