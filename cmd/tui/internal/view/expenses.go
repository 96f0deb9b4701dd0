package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

type expensesState int

const (
	expensesStateBrowse expensesState = iota
	expensesStateForm
)

type expenseAction int

const (
	expenseActionPay expenseAction = iota
	expenseActionAdd
	expenseActionDelete
)

type expenseInput struct {
	action   expenseAction
	target   ledger.Expense
	name     string
	amount   string
	category ledger.Category
	vendor   string
	date     string
	notes    string
	confirm  bool
}

var expenseStatusFilters = []ledger.ExpenseStatus{"", ledger.ExpensePending, ledger.ExpensePaid}

type ExpensesModel struct {
	CommonModel
	store *ledger.Store

	state    expensesState
	table    table.Model
	expenses []ledger.Expense
	form     *huh.Form
	input    *expenseInput

	// Index 0 of each filter means no filtering.
	statusIdx   int
	categoryIdx int

	status string
}

func NewExpensesModel(store *ledger.Store) ExpensesModel {
	t := newTable([]table.Column{
		{Title: "Date", Width: 11},
		{Title: "Expense", Width: 28},
		{Title: "Category", Width: 12},
		{Title: "Vendor", Width: 16},
		{Title: "Amount", Width: 14},
		{Title: "Paid", Width: 14},
		{Title: "Status", Width: 8},
	})

	m := ExpensesModel{store: store, table: t}
	m.refresh()

	return m
}

func (m ExpensesModel) Title() string { return "Expenses" }
func (m ExpensesModel) ShortHelp() string {
	if m.state == expensesStateForm {
		return "Enter: next/confirm | Esc: cancel"
	}

	return "Esc: back | p: pay | m: mark paid | a: add | d: delete | s: status | c: category"
}

func (m ExpensesModel) Init() tea.Cmd {
	return nil
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expenseSavedMsg:
		m.state = expensesStateBrowse
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

	if m.state == expensesStateForm {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.status = ""
			m.refresh()

			return m, nil
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(expenseStatusFilters)
			m.refresh()

			return m, nil
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(ledger.Categories) + 1)
			m.refresh()

			return m, nil
		case "a":
			return m.openForm(expenseActionAdd, ledger.Expense{})
		}

		e, selected := m.selected()

		switch key.String() {
		case "p":
			if selected {
				return m.openForm(expenseActionPay, e)
			}
		case "d":
			if selected {
				return m.openForm(expenseActionDelete, e)
			}
		case "m":
			if selected {
				return m, m.markPaidCmd(e)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) selected() (ledger.Expense, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return ledger.Expense{}, false
	}

	return m.expenses[idx], true
}

func (m ExpensesModel) filter() ledger.ExpenseFilter {
	f := ledger.ExpenseFilter{Status: expenseStatusFilters[m.statusIdx]}
	if m.categoryIdx > 0 {
		f.Category = ledger.Categories[m.categoryIdx-1]
	}

	return f
}

func (m ExpensesModel) openForm(action expenseAction, e ledger.Expense) (tea.Model, tea.Cmd) {
	m.input = &expenseInput{action: action, target: e, category: ledger.CategoryOther}

	var group *huh.Group

	switch action {
	case expenseActionPay:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Amount paid now").
				Description("Balance " + FormatAmount(e.Balance())).
				Value(&m.input.amount).
				Validate(positiveAmount),
		)
	case expenseActionAdd:
		options := make([]huh.Option[ledger.Category], len(ledger.Categories))
		for i, c := range ledger.Categories {
			options[i] = huh.NewOption(string(c), c)
		}

		group = huh.NewGroup(
			huh.NewInput().Title("Name").Value(&m.input.name).Validate(required("name")),
			huh.NewInput().Title("Amount").Value(&m.input.amount).Validate(positiveAmount),
			huh.NewSelect[ledger.Category]().Title("Category").Options(options...).Value(&m.input.category),
			huh.NewInput().Title("Vendor").Value(&m.input.vendor),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&m.input.date).Validate(optionalDate),
			huh.NewInput().Title("Notes").Value(&m.input.notes),
		)
	case expenseActionDelete:
		group = huh.NewGroup(
			huh.NewConfirm().
				Title("Delete " + e.Name + "?").
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.input.confirm),
		)
	}

	m.form = huh.NewForm(group).WithWidth(50).WithShowHelp(false)
	m.state = expensesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = expensesStateBrowse
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

func (m ExpensesModel) View() string {
	status, category := "All", "All"
	if m.statusIdx > 0 {
		status = string(expenseStatusFilters[m.statusIdx])
	}

	if m.categoryIdx > 0 {
		category = string(ledger.Categories[m.categoryIdx-1])
	}

	sum := m.store.Summary()
	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [c] Category: %s    Paid %s of %s",
		activeStyle(status),
		activeStyle(category),
		FormatAmount(sum.PaidExpenses),
		FormatAmount(sum.TotalExpenses),
	)

	content := framed(m.table.View())

	if m.state == expensesStateForm && m.form != nil {
		title := "New Expense"

		switch m.input.action {
		case expenseActionPay:
			title = "Pay " + m.input.target.Name
		case expenseActionDelete:
			title = "Delete Expense"
		}

		panel := panelStyle.Width(54).Render(title + "\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	content = lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		content,
	)

	if m.status != "" {
		content += "\n" + faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ExpensesModel) refresh() {
	m.expenses = m.store.FindExpenses(m.filter())

	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Name,
			string(e.Category),
			e.Vendor,
			FormatAmount(e.Amount),
			FormatAmount(e.Paid),
			string(e.Status),
		})
	}

	m.table.SetRows(rows)

	if n := len(rows); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

type expenseSavedMsg struct {
	status string
	err    error
}

func (m ExpensesModel) markPaidCmd(e ledger.Expense) tea.Cmd {
	store := m.store

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if _, err := store.MarkExpensePaid(ctx, e.ID); err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: e.Name + " marked paid"}
	}
}

func (m ExpensesModel) saveCmd(in expenseInput) tea.Cmd {
	store := m.store

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		switch in.action {
		case expenseActionPay:
			amount, err := ParseAmount(in.amount)
			if err != nil {
				return expenseSavedMsg{err: err}
			}

			current, err := store.Expense(in.target.ID)
			if err != nil {
				return expenseSavedMsg{err: err}
			}

			if _, err := store.UpdateExpense(ctx, current.ID, ledger.ExpensePatch{Paid: new(current.Paid + amount)}); err != nil {
				return expenseSavedMsg{err: err}
			}

			return expenseSavedMsg{status: fmt.Sprintf("Paid %s towards %s", FormatAmount(amount), current.Name)}

		case expenseActionAdd:
			amount, err := ParseAmount(in.amount)
			if err != nil {
				return expenseSavedMsg{err: err}
			}

			e, err := store.AddExpense(ctx, ledger.NewExpense{
				Name:     in.name,
				Amount:   amount,
				Date:     parseOptionalDate(in.date),
				Category: in.category,
				Vendor:   in.vendor,
				Notes:    in.notes,
			})
			if err != nil {
				return expenseSavedMsg{err: err}
			}

			return expenseSavedMsg{status: "Added " + e.Name}

		case expenseActionDelete:
			if !in.confirm {
				return expenseSavedMsg{}
			}

			if err := store.DeleteExpense(ctx, in.target.ID); err != nil {
				return expenseSavedMsg{err: err}
			}

			return expenseSavedMsg{status: "Deleted " + in.target.Name}
		}

		return expenseSavedMsg{}
	}
}
