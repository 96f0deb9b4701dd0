package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

const (
	upcomingShown = 3
	monthsShown   = 6
)

// SummaryModel is a read-only dashboard of the project's position.
type SummaryModel struct {
	CommonModel
	store   *ledger.Store
	reports *report.Service
	bar     progress.Model
}

func NewSummaryModel(store *ledger.Store, reports *report.Service) SummaryModel {
	return SummaryModel{
		store:   store,
		reports: reports,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m SummaryModel) Title() string     { return "Project Summary" }
func (m SummaryModel) ShortHelp() string { return "Esc: back" }

func (m SummaryModel) Init() tea.Cmd {
	return nil
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func (m SummaryModel) View() string {
	project := m.store.Project()
	sum := m.store.Summary()
	stages := m.store.StageStats()

	heading := lipgloss.NewStyle().Bold(true).Render(project.Name)
	if project.Location != "" {
		heading += faintStyle.Render("  " + project.Location)
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		heading,
		"",
		fmt.Sprintf("Construction  %s paid of %s", FormatAmount(sum.PaidConstruction), FormatAmount(sum.TotalConstructionCost)),
		fmt.Sprintf("Expenses      %s paid of %s", FormatAmount(sum.PaidExpenses), FormatAmount(sum.TotalExpenses)),
		fmt.Sprintf("Outstanding   %s", activeStyle(FormatAmount(sum.TotalBalance))),
		"",
		"Paid overall  "+m.bar.ViewAs(float64(sum.OverallProgress)/100),
		"Built         "+m.bar.ViewAs(float64(sum.ConstructionProgress)/100),
		"",
		fmt.Sprintf("Stages: %d done, %d in progress, %d pending", stages.Completed, stages.InProgress, stages.Pending),
		"Current: "+activeStyle(stages.CurrentStage),
		"",
		m.upcomingView(),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.categoryView(),
		"",
		m.monthlyView(),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			panelStyle.Render(left),
			panelStyle.Render(right),
		),
	)
}

func (m SummaryModel) upcomingView() string {
	due := m.reports.Upcoming(upcomingShown)
	if len(due) == 0 {
		return okStyle.Render("All stages paid")
	}

	var sb strings.Builder
	sb.WriteString("Next due:\n")

	for _, d := range due {
		fmt.Fprintf(&sb, "  %-30s %14s\n", d.Stage, FormatAmount(d.Amount))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m SummaryModel) categoryView() string {
	var sb strings.Builder
	sb.WriteString("Expenses by category:\n")

	for _, b := range m.store.ExpenseStats().ByCategory {
		if b.Count == 0 {
			continue
		}

		fmt.Fprintf(&sb, "  %-12s %14s %s\n", b.Key, FormatAmount(b.Total), faintStyle.Render(fmt.Sprintf("(%d)", b.Count)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m SummaryModel) monthlyView() string {
	months := m.store.PaymentStats().ByMonth
	if len(months) > monthsShown {
		months = months[len(months)-monthsShown:]
	}

	if len(months) == 0 {
		return faintStyle.Render("No payments yet")
	}

	var sb strings.Builder
	sb.WriteString("Payments by month:\n")

	for _, mp := range months {
		fmt.Fprintf(&sb, "  %s %14s\n", mp.Month, FormatAmount(mp.Total))
	}

	return strings.TrimRight(sb.String(), "\n")
}
