// Package report builds payment reports and renders them for people.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Period is an inclusive range of calendar days. A zero bound is open.
type Period struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains reports whether the day of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := ledger.Day(t)

	if !p.Start.IsZero() && d.Before(ledger.Day(p.Start)) {
		return false
	}

	if !p.End.IsZero() && d.After(ledger.Day(p.End)) {
		return false
	}

	return true
}

type Totals struct {
	Total        int64 `json:"totalAmount"`
	Construction int64 `json:"constructionAmount"`
	Expense      int64 `json:"expenseAmount"`
	Other        int64 `json:"otherAmount"`
	Count        int   `json:"paymentCount"`
}

type Report struct {
	Period   Period                   `json:"period"`
	Summary  Totals                   `json:"summary"`
	ByMonth  []ledger.MonthlyPayments `json:"byMonth"`
	Payments []ledger.Payment         `json:"payments"`
}

// Build selects the payments dated within [start, end] and totals them.
// Payments come back newest first.
func Build(payments []ledger.Payment, start, end time.Time) Report {
	period := Period{Start: ledger.Day(start), End: ledger.Day(end)}

	selected := make([]ledger.Payment, 0, len(payments))

	for _, p := range payments {
		if period.Contains(p.Date) {
			selected = append(selected, p)
		}
	}

	slices.SortStableFunc(selected, func(a, b ledger.Payment) int {
		return b.Date.Compare(a.Date)
	})

	stats := ledger.SummarizePayments(selected)

	return Report{
		Period: period,
		Summary: Totals{
			Total:        stats.Total,
			Construction: stats.Construction,
			Expense:      stats.Expense,
			Other:        stats.Other,
			Count:        stats.Count,
		},
		ByMonth:  stats.ByMonth,
		Payments: selected,
	}
}

// Due is a stage that still has money owing.
type Due struct {
	StageID ledger.ID          `json:"stageId"`
	Stage   string             `json:"stage"`
	Amount  int64              `json:"amount"`
	Status  ledger.StageStatus `json:"status"`
}

// Upcoming lists the first n unfinished stages in schedule order with what
// remains to be paid on each. n <= 0 lists all of them.
func Upcoming(stages []ledger.Stage, n int) []Due {
	var due []Due

	for _, st := range stages {
		if st.Status == ledger.StageCompleted {
			continue
		}

		if n > 0 && len(due) == n {
			break
		}

		due = append(due, Due{
			StageID: st.ID,
			Stage:   st.Name,
			Amount:  st.Balance(),
			Status:  st.Status,
		})
	}

	return due
}

// Markdown renders the project position and the report as a markdown document.
func Markdown(project ledger.Project, sum ledger.Summary, r Report) string {
	var sb strings.Builder

	rupees := ledger.FormatRupees

	fmt.Fprintf(&sb, "# %s\n\n", project.Name)

	if project.Location != "" || project.Engineer != "" {
		fmt.Fprintf(&sb, "%s · Engineer: %s\n\n", project.Location, project.Engineer)
	}

	sb.WriteString("## Position\n\n")
	sb.WriteString("| | Cost | Paid | Balance |\n|---|---:|---:|---:|\n")
	fmt.Fprintf(&sb, "| Construction | %s | %s | %s |\n",
		rupees(sum.TotalConstructionCost), rupees(sum.PaidConstruction), rupees(sum.BalanceConstruction))
	fmt.Fprintf(&sb, "| Expenses | %s | %s | %s |\n",
		rupees(sum.TotalExpenses), rupees(sum.PaidExpenses), rupees(sum.BalanceExpenses))
	fmt.Fprintf(&sb, "| **Total** | **%s** | **%s** | **%s** |\n\n",
		rupees(sum.TotalProjectCost), rupees(sum.TotalPaid), rupees(sum.TotalBalance))
	fmt.Fprintf(&sb, "Construction progress: %d%% · Overall paid: %d%%\n\n",
		sum.ConstructionProgress, sum.OverallProgress)

	fmt.Fprintf(&sb, "## Payments %s\n\n", periodLabel(r.Period))

	if len(r.Payments) == 0 {
		sb.WriteString("_No payments in this period._\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d payments totalling **%s** (construction %s, expenses %s, other %s).\n\n",
		r.Summary.Count, rupees(r.Summary.Total),
		rupees(r.Summary.Construction), rupees(r.Summary.Expense), rupees(r.Summary.Other))

	sb.WriteString("| Date | Item | Type | Amount | Notes |\n|---|---|---|---:|---|\n")

	for _, p := range r.Payments {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			p.Date.Format(time.DateOnly), cell(p.ItemName), p.Type, rupees(p.Amount), cell(p.Notes))
	}

	return sb.String()
}

func periodLabel(p Period) string {
	switch {
	case p.Start.IsZero() && p.End.IsZero():
		return "(all time)"
	case p.Start.IsZero():
		return "up to " + p.End.Format(time.DateOnly)
	case p.End.IsZero():
		return "from " + p.Start.Format(time.DateOnly)
	}

	return p.Start.Format(time.DateOnly) + " to " + p.End.Format(time.DateOnly)
}

// cell keeps free text from breaking a markdown table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

var csvHeader = []string{"date", "item", "type", "amount", "total_paid", "balance", "notes"}

// WriteCSV writes the report's payments as CSV, newest first.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range r.Payments {
		record := []string{
			p.Date.Format(time.DateOnly),
			p.ItemName,
			string(p.Type),
			strconv.FormatInt(p.Amount, 10),
			strconv.FormatInt(p.TotalPaid, 10),
			strconv.FormatInt(p.Balance, 10),
			p.Notes,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write payment %s: %w", p.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
