package expensecsv

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one amount column. Negative values count as outflows.
	amountSingle amountMode = iota
	// amountSplit means separate withdrawal and deposit columns. Only withdrawals become expenses.
	amountSplit
)

// Profile describes the column layout of an expense sheet.
// Column names are matched case-insensitively. Optional columns may be empty.
type Profile struct {
	Name        string
	DateCol     string
	NameCol     string
	AmountMode  amountMode
	AmountCol   string // used when AmountMode == amountSingle
	DebitCol    string // used when AmountMode == amountSplit
	CreditCol   string // used when AmountMode == amountSplit
	CategoryCol string
	VendorCol   string
	NotesCol    string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.NameCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of sheet layouts tried during auto-detection.
var profiles = []Profile{
	{
		Name:       "bank-statement",
		DateCol:    "txn date",
		NameCol:    "narration",
		AmountMode: amountSplit,
		DebitCol:   "withdrawal amt.",
		CreditCol:  "deposit amt.",
		NotesCol:   "ref no.",
	},
	{
		Name:       "vendor-bill",
		DateCol:    "bill date",
		NameCol:    "item",
		AmountMode: amountSingle,
		AmountCol:  "total",
		VendorCol:  "supplier",
		NotesCol:   "remarks",
	},
	{
		Name:        "sitebook",
		DateCol:     "date",
		NameCol:     "name",
		AmountMode:  amountSingle,
		AmountCol:   "amount",
		CategoryCol: "category",
		VendorCol:   "vendor",
		NotesCol:    "notes",
	},
}
