package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStatePath
	reportStateWriting
	reportStateResult
)

type ReportModel struct {
	CommonModel
	reports *report.Service

	state  reportState
	err    error
	picker TimeframePicker

	start time.Time
	end   time.Time
	label string

	form    *huh.Form
	path    *string
	spinner spinner.Model
	files   []string
	totals  report.Totals
}

func NewReportModel(svc *report.Service) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ReportModel{
		reports: svc,
		state:   reportStateTimeframe,
		picker:  NewTimeframePicker(),
		path:    new("./reports"),
		spinner: s,
	}
}

func (m ReportModel) Title() string { return "Payment Report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back to menu"
	case reportStateWriting:
		return "Writing..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tf, ok := msg.(TimeframeSelectedMsg); ok {
		m.start, m.end, m.label = tf.Start, tf.End, tf.Label
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Output directory").
					Description("Created if it does not exist").
					Placeholder("./reports").
					Value(m.path).
					Validate(required("directory")),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = reportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case reportStateTimeframe:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case reportStatePath:
		return m.updatePath(msg)

	case reportStateWriting:
		if res, ok := msg.(reportWrittenMsg); ok {
			m.state = reportStateResult
			m.err = res.err
			m.files = res.files
			m.totals = res.totals

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case reportStateResult:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ReportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = reportStateTimeframe
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reportStateWriting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.writeCmd(*m.path))
}

func (m ReportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case reportStateTimeframe:
		return pad.Render(m.picker.View())
	case reportStatePath:
		return pad.Render(m.form.View())
	case reportStateWriting:
		return pad.Render(m.spinner.View() + " Writing payment report...")
	case reportStateResult:
		return pad.Render(m.viewResult())
	}

	return ""
}

func (m ReportModel) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var sb strings.Builder

	sb.WriteString(okStyle.Bold(true).Render("Report written") + "\n\n")
	fmt.Fprintf(&sb, "%s: %s across %d payments\n", m.label, FormatAmount(m.totals.Total), m.totals.Count)
	fmt.Fprintf(&sb, "  Construction  %s\n", FormatAmount(m.totals.Construction))
	fmt.Fprintf(&sb, "  Expenses      %s\n", FormatAmount(m.totals.Expense))
	fmt.Fprintf(&sb, "  Other         %s\n\n", FormatAmount(m.totals.Other))

	for _, f := range m.files {
		sb.WriteString(faintStyle.Render(f) + "\n")
	}

	return sb.String()
}

type reportWrittenMsg struct {
	files  []string
	totals report.Totals
	err    error
}

func (m ReportModel) writeCmd(dir string) tea.Cmd {
	svc := m.reports
	start, end := m.start, m.end

	return func() tea.Msg {
		files, err := svc.Export(strings.TrimSpace(dir), start, end)
		if err != nil {
			return reportWrittenMsg{err: err}
		}

		return reportWrittenMsg{files: files, totals: svc.Payments(start, end).Summary}
	}
}
