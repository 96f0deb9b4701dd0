package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// renderTable draws rows under headers. Columns listed in numeric are right aligned.
func renderTable(w io.Writer, title string, headers []string, rows [][]string, numeric ...int) {
	if title != "" {
		fmt.Fprintln(w, titleStyle.Render(title))
	}

	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w, t.Render())
}

func rupees(n int64) string {
	return ledger.FormatRupees(n)
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(time.DateOnly)
}

// parseRupees accepts whole or fractional rupees with Indian or western
// digit grouping and rounds to the nearest rupee.
func parseRupees(s string) (int64, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(s), "₹")
	clean = strings.ReplaceAll(clean, ",", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	return d.Round(0).IntPart(), nil
}

func parseDay(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", flag, s)
	}

	return t, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
