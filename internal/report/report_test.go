package report_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func payments() []ledger.Payment {
	stage := ledger.ID("stage-1")

	return []ledger.Payment{
		{ID: "p1", ItemID: &stage, ItemName: "Foundation", Amount: 100000, Type: ledger.PaymentConstruction, Date: day(2024, 1, 10)},
		{ID: "p2", ItemName: "Borewell", Amount: 40000, Type: ledger.PaymentExpense, Date: day(2024, 2, 1)},
		{ID: "p3", ItemName: "Site tea", Amount: 500, Type: ledger.PaymentOther, Date: day(2024, 2, 29), Notes: "crew | evening"},
		{ID: "p4", ItemName: "Plinth", Amount: 150000, Type: ledger.PaymentConstruction, Date: day(2024, 3, 15)},
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		wantIDs    []ledger.ID
		want       report.Totals
	}{
		{
			name:    "open range takes everything newest first",
			wantIDs: []ledger.ID{"p4", "p3", "p2", "p1"},
			want:    report.Totals{Total: 290500, Construction: 250000, Expense: 40000, Other: 500, Count: 4},
		},
		{
			name:    "bounds are inclusive",
			start:   day(2024, 2, 1),
			end:     day(2024, 2, 29),
			wantIDs: []ledger.ID{"p3", "p2"},
			want:    report.Totals{Total: 40500, Expense: 40000, Other: 500, Count: 2},
		},
		{
			name:    "end compares by day not instant",
			start:   day(2024, 3, 15).Add(20 * time.Hour),
			end:     day(2024, 3, 15).Add(time.Hour),
			wantIDs: []ledger.ID{"p4"},
			want:    report.Totals{Total: 150000, Construction: 150000, Count: 1},
		},
		{
			name:    "empty period",
			start:   day(2025, 1, 1),
			wantIDs: []ledger.ID{},
			want:    report.Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := report.Build(payments(), tt.start, tt.end)

			ids := make([]ledger.ID, 0, len(r.Payments))
			for _, p := range r.Payments {
				ids = append(ids, p.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.want, r.Summary)
		})
	}
}

func TestBuild_ByMonth(t *testing.T) {
	r := report.Build(payments(), time.Time{}, time.Time{})

	require.Len(t, r.ByMonth, 3)
	assert.Equal(t, "2024-01", r.ByMonth[0].Month)
	assert.Equal(t, int64(40500), r.ByMonth[1].Total)
}

func TestUpcoming(t *testing.T) {
	stages := []ledger.Stage{
		{ID: "s1", Name: "Foundation", Amount: 100, Paid: 100, Status: ledger.StageCompleted},
		{ID: "s2", Name: "Plinth", Amount: 200, Paid: 50, Status: ledger.StageInProgress},
		{ID: "s3", Name: "Walls", Amount: 300, Status: ledger.StagePending},
		{ID: "s4", Name: "Roof", Amount: 400, Status: ledger.StagePending},
	}

	got := report.Upcoming(stages, 2)
	assert.Equal(t, []report.Due{
		{StageID: "s2", Stage: "Plinth", Amount: 150, Status: ledger.StageInProgress},
		{StageID: "s3", Stage: "Walls", Amount: 300, Status: ledger.StagePending},
	}, got)

	assert.Len(t, report.Upcoming(stages, 0), 3)
	assert.Empty(t, report.Upcoming(stages[:1], 3))
}

func TestMarkdown(t *testing.T) {
	project := ledger.Project{Name: "PGK Residence", Engineer: "Er. Kumar", Location: "Chennai"}
	sum := ledger.Summary{TotalConstructionCost: 2062500, PaidConstruction: 250000, BalanceConstruction: 1812500}

	md := report.Markdown(project, sum, report.Build(payments(), day(2024, 2, 1), time.Time{}))

	assert.True(t, strings.HasPrefix(md, "# PGK Residence\n"))
	assert.Contains(t, md, "## Payments from 2024-02-01")
	assert.Contains(t, md, ledger.FormatRupees(2062500))
	assert.Contains(t, md, "| 2024-03-15 | Plinth | construction |")
	assert.Contains(t, md, `crew \| evening`)
	assert.NotContains(t, md, "Foundation")

	empty := report.Markdown(project, sum, report.Build(nil, time.Time{}, time.Time{}))
	assert.Contains(t, empty, "(all time)")
	assert.Contains(t, empty, "No payments in this period")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, report.Build(payments(), day(2024, 2, 29), day(2024, 3, 31))))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "item", "type", "amount", "total_paid", "balance", "notes"}, records[0])
	assert.Equal(t, "2024-03-15", records[1][0])
	assert.Equal(t, "crew | evening", records[2][6])
}

type fakeSource struct{}

func (fakeSource) Project() ledger.Project    { return ledger.Project{Name: "PGK Residence"} }
func (fakeSource) Summary() ledger.Summary    { return ledger.Summary{} }
func (fakeSource) Stages() []ledger.Stage     { return nil }
func (fakeSource) Payments() []ledger.Payment { return payments() }

func TestService_Export(t *testing.T) {
	dir := t.TempDir()

	paths, err := report.NewService(fakeSource{}).Export(dir, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	md, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(md), "4 payments")

	raw, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(raw), "\n"))
}
