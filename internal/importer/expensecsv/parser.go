package expensecsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/sitebook/internal/encoding"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Parser reads expense sheets exported from spreadsheets, vendor billing
// tools and bank statements. It auto-detects the delimiter and the layout
// by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// delimiters are tried in order until one yields a header row matching a profile.
var delimiters = []rune{',', ';', '\t'}

var dateLayouts = []string{time.DateOnly, "02-01-2006", "02/01/2006"}

func (p *Parser) Parse(r io.Reader) ([]ledger.NewExpense, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, comma := range delimiters {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, colMap, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, fmt.Errorf("no matching expense sheet format found: expected a header with date, name and amount columns")
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) lookup(name string) int {
	if name == "" {
		return -1
	}

	idx, ok := c[name]
	if !ok {
		return -1
	}

	return idx
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
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

// parseRows extracts expenses from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]ledger.NewExpense, error) {
	dateIdx := cols.lookup(p.DateCol)
	nameIdx := cols.lookup(p.NameCol)
	categoryIdx := cols.lookup(p.CategoryCol)
	vendorIdx := cols.lookup(p.VendorCol)
	notesIdx := cols.lookup(p.NotesCol)

	var expenses []ledger.NewExpense

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		name := cellValue(row, nameIdx)
		if name == "" {
			return nil, fmt.Errorf("row %d: missing name", rowNum)
		}

		amount, ok, err := parseAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse amount: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		expenses = append(expenses, ledger.NewExpense{
			Name:     name,
			Amount:   amount,
			Date:     date,
			Category: parseCategory(cellValue(row, categoryIdx)),
			Vendor:   cellValue(row, vendorIdx),
			Notes:    cellValue(row, notesIdx),
		})
	}

	return expenses, nil
}

// parseDate tries each accepted layout on the given cell.
// Returns false for empty cells or unparseable values (title and footer rows).
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount returns the expense amount for a row. ok is false for rows that
// carry no outflow (blank, zero, or deposit-only).
func parseAmount(p *Profile, cols colIndex, row []string) (amount int64, ok bool, err error) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols.lookup(p.AmountCol))
	case amountSplit:
		return parseSingleAmount(row, cols.lookup(p.DebitCol))
	}

	return 0, false, nil
}

func parseSingleAmount(row []string, idx int) (int64, bool, error) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, false, nil
	}

	rupees, err := parseRupees(s)
	if err != nil {
		return 0, false, err
	}

	if rupees == 0 {
		return 0, false, nil
	}

	return abs(rupees), true, nil
}

// parseCategory maps a free-form category label onto a ledger category.
// Blank labels stay blank so the ledger applies its default.
func parseCategory(s string) ledger.Category {
	if s == "" {
		return ""
	}

	label := strings.ToLower(s)
	label = strings.NewReplacer(" ", "-", "_", "-").Replace(label)

	if label == "labour" {
		label = string(ledger.CategoryLabor)
	}

	c := ledger.Category(label)
	if !c.Valid() {
		return ledger.CategoryOther
	}

	return c
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
