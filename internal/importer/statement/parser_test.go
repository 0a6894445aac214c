package statement_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/importer/statement"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func parse(t *testing.T, content string) *statement.Result {
	t.Helper()

	res, err := statement.NewParser().Parse(strings.NewReader(content))
	require.NoError(t, err)

	return res
}

func TestParser_BancoDoBrasil(t *testing.T) {
	csv := `"Data";"Dependencia Origem";"Histórico";"Data do Balancete";"Número do documento";"Valor";
"01/03/2024";"";"Saldo Anterior";"";"0";"1.000,00";
"04/03/2024";"";"Pix - Enviado IMOBILIARIA SOL";"";"30401";"-2.000,00";
"05/03/2024";"0000-1";"Pix - Recebido CLIENTE ACME";"";"30501";"5.250,75";
"31/03/2024";"";"S A L D O";"";"0";"4.250,75";
`

	res := parse(t, csv)
	assert.Equal(t, "bb", res.Profile)
	require.Len(t, res.Params, 2)

	assert.Equal(t, date(2024, 3, 4), res.Params[0].Date)
	assert.Equal(t, "Pix - Enviado IMOBILIARIA SOL", res.Params[0].Description)
	assert.True(t, dec("2000").Equal(res.Params[0].Amount))
	assert.Equal(t, ledger.KindExpense, res.Params[0].Kind)

	assert.True(t, dec("5250.75").Equal(res.Params[1].Amount))
	assert.Equal(t, ledger.KindIncome, res.Params[1].Kind)
}

func TestParser_Itau(t *testing.T) {
	csv := `Extrato conta corrente;;
agência;conta;
1234;56789-0;

data;lançamento;valor
02/01/2024;SALDO ANTERIOR;
03/01/2024;TAR PACOTE ITAU;-64,90
05/01/2024;TED 341.1234 ACME LTDA;R$ 12.000,00
`

	res := parse(t, csv)
	assert.Equal(t, "itau", res.Profile)
	require.Len(t, res.Params, 2)

	assert.Equal(t, "TAR PACOTE ITAU", res.Params[0].RawDescription)
	assert.True(t, dec("64.90").Equal(res.Params[0].Amount))
	assert.Equal(t, ledger.KindExpense, res.Params[0].Kind)

	assert.True(t, dec("12000").Equal(res.Params[1].Amount))
	assert.Equal(t, ledger.KindIncome, res.Params[1].Kind)
}

func TestParser_NubankConta(t *testing.T) {
	csv := `Data,Valor,Identificador,Descrição
10/02/2024,-150.00,65c7a1f0-1111,Transferência enviada pelo Pix - PADARIA BOM PAO
12/02/2024,3200.50,65c7a1f0-2222,Transferência recebida pelo Pix - CLIENTE ACME
`

	res := parse(t, csv)
	assert.Equal(t, "nubank-conta", res.Profile)
	require.Len(t, res.Params, 2)

	assert.Equal(t, date(2024, 2, 10), res.Params[0].Date)
	assert.True(t, dec("150").Equal(res.Params[0].Amount))
	assert.Equal(t, ledger.KindExpense, res.Params[0].Kind)
	assert.True(t, dec("3200.50").Equal(res.Params[1].Amount))
	assert.Equal(t, ledger.KindIncome, res.Params[1].Kind)
}

func TestParser_NubankCartao(t *testing.T) {
	csv := `date,title,amount
2024-02-03,Uber *Trip,23.90
2024-02-10,Pagamento recebido,-500.00
`

	res := parse(t, csv)
	assert.Equal(t, "nubank-cartao", res.Profile)
	require.Len(t, res.Params, 2)

	assert.Equal(t, ledger.KindExpense, res.Params[0].Kind)
	assert.True(t, dec("23.90").Equal(res.Params[0].Amount))
	assert.Equal(t, ledger.KindIncome, res.Params[1].Kind)
	assert.True(t, dec("500").Equal(res.Params[1].Amount))
}

func TestParser_SplitDebitCredit(t *testing.T) {
	csv := `Data;Histórico;Documento;Débito;Crédito;Saldo
15/12/2023;COMPRA CARTAO POSTO SHELL;001;64,00;;
16/12/2023;ESTORNO COMPRA;002;;25,00;
`

	res := parse(t, csv)
	assert.Equal(t, "split", res.Profile)
	require.Len(t, res.Params, 2)

	assert.Equal(t, ledger.KindExpense, res.Params[0].Kind)
	assert.True(t, dec("64").Equal(res.Params[0].Amount))
	assert.Equal(t, ledger.KindIncome, res.Params[1].Kind)
	assert.True(t, dec("25").Equal(res.Params[1].Amount))
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data;Descrição;Valor\n30/01/2024;CAFÉ SÃO JOÃO;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	res, err := statement.NewParser().Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, res.Params, 1)

	assert.Equal(t, "generic", res.Profile)
	assert.Equal(t, "CAFÉ SÃO JOÃO", res.Params[0].RawDescription)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Relatório;Gerado em 01/02/2024
Valor;Descrição;Data;Ignorado
-10,00;TEST_ORDER;30/01/2024;XXX
`

	res := parse(t, csv)
	require.Len(t, res.Params, 1)

	assert.Equal(t, "TEST_ORDER", res.Params[0].Description)
	assert.True(t, dec("10").Equal(res.Params[0].Amount))
}

func TestParser_UnknownLayout(t *testing.T) {
	_, err := statement.NewParser().Parse(strings.NewReader("foo;bar\n1;2\n"))

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "file", ve.Field)
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := statement.NewParser().Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParser_HeaderOnly(t *testing.T) {
	res := parse(t, "Data;Descrição;Valor")
	assert.Empty(t, res.Params)
}

func TestParser_MissingDescription(t *testing.T) {
	_, err := statement.NewParser().Parse(strings.NewReader("Data;Descrição;Valor\n30/01/2024;;-10,00\n"))
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParser_AllFieldsPopulated(t *testing.T) {
	res := parse(t, "Data;Descrição;Valor\n30/01/2024;TEST;-10,00\n")
	require.Len(t, res.Params, 1)

	p := res.Params[0]
	assert.Equal(t, ledger.StatusPending, p.Status)
	assert.Equal(t, "TEST", p.RawDescription)
	assert.Equal(t, p.Description, p.RawDescription)
	assert.Equal(t, date(2024, 1, 30), p.Date)
}

func TestParser_LargeAmounts(t *testing.T) {
	res := parse(t, "Data;Descrição;Valor\n30/01/2024;BIG TRANSFER;-1.234.567,89\n")
	require.Len(t, res.Params, 1)

	assert.Equal(t, "1234567.89", res.Params[0].Amount.StringFixed(2))
}

func TestParser_SkipsFooterAndZeroRows(t *testing.T) {
	csv := `Data;Descrição;Valor
30/01/2024;TEST;-10,00
31/01/2024;ZERO;0,00
Totais;;-10,00
`

	res := parse(t, csv)
	require.Len(t, res.Params, 1)
}
