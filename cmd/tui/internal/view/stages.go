package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

type stagesState int

const (
	stagesStateBrowse stagesState = iota
	stagesStateForm
)

type stageAction int

const (
	stageActionPay stageAction = iota
	stageActionAdd
	stageActionDelete
)

// stageInput is shared by copies of StagesModel so huh can write into it.
type stageInput struct {
	action     stageAction
	target     ledger.Stage
	name       string
	percentage string
	amount     string
	date       string
	notes      string
	confirm    bool
}

type StagesModel struct {
	CommonModel
	store *ledger.Store

	state  stagesState
	table  table.Model
	stages []ledger.Stage
	form   *huh.Form
	input  *stageInput
	status string
}

func NewStagesModel(store *ledger.Store) StagesModel {
	t := newTable([]table.Column{
		{Title: "Stage", Width: 34},
		{Title: "%", Width: 4},
		{Title: "Amount", Width: 16},
		{Title: "Paid", Width: 16},
		{Title: "Balance", Width: 16},
		{Title: "Status", Width: 12},
		{Title: "Date", Width: 11},
	})

	m := StagesModel{store: store, table: t}
	m.refresh()

	return m
}

func (m StagesModel) Title() string { return "Construction Stages" }
func (m StagesModel) ShortHelp() string {
	if m.state == stagesStateForm {
		return "Enter: next/confirm | Esc: cancel"
	}

	return "Esc: back | p: pay | c: complete | a: add | d: delete | r: refresh"
}

func (m StagesModel) Init() tea.Cmd {
	return nil
}

func (m StagesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageSavedMsg:
		m.state = stagesStateBrowse
		m.form = nil
		m.table.Focus()
		m.status = msg.status

		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		}

		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	if m.state == stagesStateForm {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m StagesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
			m.status = ""

			return m, nil
		case "a":
			return m.openForm(stageActionAdd, ledger.Stage{})
		}

		st, selected := m.selected()

		switch key.String() {
		case "p":
			if selected {
				return m.openForm(stageActionPay, st)
			}
		case "d":
			if selected {
				return m.openForm(stageActionDelete, st)
			}
		case "c":
			if selected {
				return m, m.completeCmd(st)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m StagesModel) selected() (ledger.Stage, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.stages) {
		return ledger.Stage{}, false
	}

	return m.stages[idx], true
}

func (m StagesModel) openForm(action stageAction, st ledger.Stage) (tea.Model, tea.Cmd) {
	m.input = &stageInput{action: action, target: st}

	var group *huh.Group

	switch action {
	case stageActionPay:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Amount paid now").
				Description("Balance " + FormatAmount(st.Balance())).
				Value(&m.input.amount).
				Validate(positiveAmount),
		)
	case stageActionAdd:
		group = huh.NewGroup(
			huh.NewInput().Title("Name").Value(&m.input.name).Validate(required("name")),
			huh.NewInput().
				Title("Percentage of total cost").
				Value(&m.input.percentage).
				Validate(validPercentage),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.input.date).
				Validate(optionalDate),
			huh.NewInput().Title("Notes").Value(&m.input.notes),
		)
	case stageActionDelete:
		group = huh.NewGroup(
			huh.NewConfirm().
				Title("Delete " + st.Name + "?").
				Description("Payments already made stay in the payment log.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.input.confirm),
		)
	}

	m.form = huh.NewForm(group).WithWidth(50).WithShowHelp(false)
	m.state = stagesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func validPercentage(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return fmt.Errorf("enter a whole number from 1 to 100")
	}

	return nil
}

func (m StagesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = stagesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd(*m.input)
}

func (m StagesModel) View() string {
	content := framed(m.table.View())

	if m.state == stagesStateForm && m.form != nil {
		panel := panelStyle.Width(54).Render(m.formTitle() + "\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	sum := m.store.Summary()
	header := fmt.Sprintf(
		"Construction %s of %s paid • %s",
		activeStyle(FormatAmount(sum.PaidConstruction)),
		FormatAmount(sum.TotalConstructionCost),
		activeStyle(fmt.Sprintf("%d%% complete", sum.ConstructionProgress)),
	)

	content = lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		content,
	)

	if m.status != "" {
		content += "\n" + faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m StagesModel) formTitle() string {
	switch m.input.action {
	case stageActionPay:
		return "Pay " + m.input.target.Name
	case stageActionAdd:
		return "New Stage"
	}

	return "Delete Stage"
}

func (m *StagesModel) refresh() {
	m.stages = m.store.Stages()

	rows := make([]table.Row, 0, len(m.stages))
	for _, st := range m.stages {
		rows = append(rows, table.Row{
			st.Name,
			strconv.Itoa(st.Percentage),
			FormatAmount(st.Amount),
			FormatAmount(st.Paid),
			FormatAmount(st.Balance()),
			string(st.Status),
			FormatDate(st.Date),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

type stageSavedMsg struct {
	status string
	err    error
}

func (m StagesModel) completeCmd(st ledger.Stage) tea.Cmd {
	store := m.store

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if _, err := store.CompleteStage(ctx, st.ID); err != nil {
			return stageSavedMsg{err: err}
		}

		return stageSavedMsg{status: st.Name + " marked complete"}
	}
}

func (m StagesModel) saveCmd(in stageInput) tea.Cmd {
	store := m.store

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		switch in.action {
		case stageActionPay:
			amount, err := ParseAmount(in.amount)
			if err != nil {
				return stageSavedMsg{err: err}
			}

			// Paid may have moved since the form opened.
			current, err := store.Stage(in.target.ID)
			if err != nil {
				return stageSavedMsg{err: err}
			}

			if _, err := store.UpdateStage(ctx, current.ID, ledger.StagePatch{Paid: new(current.Paid + amount)}); err != nil {
				return stageSavedMsg{err: err}
			}

			return stageSavedMsg{status: fmt.Sprintf("Paid %s towards %s", FormatAmount(amount), current.Name)}

		case stageActionAdd:
			pct, _ := strconv.Atoi(in.percentage)

			st, err := store.AddStage(ctx, ledger.NewStage{
				Name:       in.name,
				Percentage: pct,
				Date:       parseOptionalDate(in.date),
				Notes:      in.notes,
			})
			if err != nil {
				return stageSavedMsg{err: err}
			}

			return stageSavedMsg{status: fmt.Sprintf("Added %s at %s", st.Name, FormatAmount(st.Amount))}

		case stageActionDelete:
			if !in.confirm {
				return stageSavedMsg{}
			}

			if err := store.DeleteStage(ctx, in.target.ID); err != nil {
				return stageSavedMsg{err: err}
			}

			return stageSavedMsg{status: "Deleted " + in.target.Name}
		}

		return stageSavedMsg{}
	}
}
