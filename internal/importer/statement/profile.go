package statement

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column, negative for money leaving the account.
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
	// amountCharge means one column where positive values are card charges
	// and negative values are refunds or payments.
	amountCharge
)

// Profile describes the column layout of one bank's CSV export.
// Column names are matched case-insensitively after trimming.
type Profile struct {
	Name         string
	Comma        rune // field separator the bank exports with
	DateCol      string
	DateLayouts  []string
	DescCol      string
	AmountMode   amountMode
	AmountCol    string // amountSingle and amountCharge
	DebitCol     string // amountSplit
	CreditCol    string // amountSplit
	DecimalComma bool   // "1.234,56" instead of "1234.56"
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle, amountCharge:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

var brDate = []string{"02/01/2006", "02/01/06", "02-01-2006"}

// profiles is the ordered list of export formats tried during auto-detection.
// Profiles requiring more columns come first so that a generic layout never
// shadows a specific one.
var profiles = []Profile{
	{
		Name:         "split",
		Comma:        ';',
		DateCol:      "data",
		DateLayouts:  brDate,
		DescCol:      "histórico",
		AmountMode:   amountSplit,
		DebitCol:     "débito",
		CreditCol:    "crédito",
		DecimalComma: true,
	},
	{
		Name:        "nubank-conta",
		Comma:       ',',
		DateCol:     "data",
		DateLayouts: brDate,
		DescCol:     "descrição",
		AmountMode:  amountSingle,
		AmountCol:   "valor",
	},
	{
		Name:        "nubank-cartao",
		Comma:       ',',
		DateCol:     "date",
		DateLayouts: []string{"2006-01-02"},
		DescCol:     "title",
		AmountMode:  amountCharge,
		AmountCol:   "amount",
	},
	{
		Name:         "bb",
		Comma:        ';',
		DateCol:      "data",
		DateLayouts:  brDate,
		DescCol:      "histórico",
		AmountMode:   amountSingle,
		AmountCol:    "valor",
		DecimalComma: true,
	},
	{
		Name:         "itau",
		Comma:        ';',
		DateCol:      "data",
		DateLayouts:  brDate,
		DescCol:      "lançamento",
		AmountMode:   amountSingle,
		AmountCol:    "valor",
		DecimalComma: true,
	},
	{
		Name:         "generic",
		Comma:        ';',
		DateCol:      "data",
		DateLayouts:  brDate,
		DescCol:      "descrição",
		AmountMode:   amountSingle,
		AmountCol:    "valor",
		DecimalComma: true,
	},
}
