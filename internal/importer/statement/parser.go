// Package statement parses CSV statements exported by Brazilian banks into
// ledger transaction params.
package statement

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	enc "github.com/MrJamesThe3rd/brazaforte/internal/encoding"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

// separators are tried in order until a header matches a profile.
var separators = []rune{';', ','}

// Parser reads bank CSV exports and produces pending transaction params
// without an account. It auto-detects the export format by matching column
// headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Result is a parsed statement together with the profile that matched it.
type Result struct {
	Profile string
	Charset string
	Params  []ledger.CreateParams
}

func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, charset, err := enc.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	for _, sep := range separators {
		rows, err := readRows(content, sep)
		if err != nil {
			continue
		}

		profile, colMap, headerIdx := detectProfile(rows, sep)
		if profile == nil {
			continue
		}

		params, err := parseRows(profile, colMap, rows[headerIdx+1:], headerIdx)
		if err != nil {
			return nil, err
		}

		return &Result{Profile: profile.Name, Charset: charset, Params: params}, nil
	}

	return nil, apperr.Invalid("file", "no known bank statement layout found")
}

func readRows(content []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a profile exported with sep.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string, sep rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].Comma == sep && matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]ledger.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var params []ledger.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(row, dateIdx, p.DateLayouts)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, apperr.Invalid("file", fmt.Sprintf("row %d: missing description", rowNum))
		}

		// Balance lines carry a date but no movement.
		if isBalanceLine(desc) {
			continue
		}

		amount, kind, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		params = append(params, ledger.CreateParams{
			Kind:           kind,
			Amount:         amount,
			Status:         ledger.StatusPending,
			Description:    desc,
			RawDescription: desc,
			Date:           date,
		})
	}

	return params, nil
}

func isBalanceLine(desc string) bool {
	d := strings.ToUpper(desc)
	return strings.HasPrefix(d, "SALDO") || strings.HasPrefix(d, "S A L D O")
}

// parseDate returns false for empty cells or values in none of the layouts
// (footer rows and the like).
func parseDate(row []string, idx int, layouts []string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, ledger.Kind, bool) {
	switch p.AmountMode {
	case amountSingle:
		return signedAmount(cellValue(row, cols[p.AmountCol]), p.DecimalComma, false)
	case amountCharge:
		return signedAmount(cellValue(row, cols[p.AmountCol]), p.DecimalComma, true)
	case amountSplit:
		return splitAmount(row, cols[p.DebitCol], cols[p.CreditCol], p.DecimalComma)
	}

	return decimal.Zero, "", false
}

// signedAmount maps a signed value to a positive amount and a kind. With
// charge set the sign convention is inverted.
func signedAmount(s string, decimalComma, charge bool) (decimal.Decimal, ledger.Kind, bool) {
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseAmount(s, decimalComma)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if charge {
		d = d.Neg()
	}

	if d.IsNegative() {
		return d.Neg(), ledger.KindExpense, true
	}

	return d, ledger.KindIncome, true
}

func splitAmount(row []string, debitIdx, creditIdx int, decimalComma bool) (decimal.Decimal, ledger.Kind, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		d, err := parseAmount(s, decimalComma)
		if err == nil && !d.IsZero() {
			return d.Abs(), ledger.KindExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		d, err := parseAmount(s, decimalComma)
		if err == nil && !d.IsZero() {
			return d.Abs(), ledger.KindIncome, true
		}
	}

	return decimal.Zero, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
