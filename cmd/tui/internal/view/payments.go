package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

type paymentsState int

const (
	paymentsStateTimeframe paymentsState = iota
	paymentsStateList
	paymentsStateForm
)

type paymentAction int

const (
	paymentActionAdd paymentAction = iota
	paymentActionEdit
	paymentActionDelete
)

type paymentInput struct {
	action  paymentAction
	target  ledger.Payment
	name    string
	amount  string
	date    string
	notes   string
	confirm bool
}

// paymentItem wraps a payment to implement list.Item.
type paymentItem struct {
	p ledger.Payment
}

func (i paymentItem) Title() string {
	kind := faintStyle.Render(fmt.Sprintf("[%s]", i.p.Type))
	return fmt.Sprintf("%s  %14s  %s  %s", FormatDate(i.p.Date), FormatAmount(i.p.Amount), kind, i.p.ItemName)
}

func (i paymentItem) Description() string {
	parts := make([]string, 0, 2)

	if i.p.Type != ledger.PaymentOther {
		parts = append(parts, fmt.Sprintf("paid to date %s, balance %s", FormatAmount(i.p.TotalPaid), FormatAmount(i.p.Balance)))
	}

	if i.p.Notes != "" {
		parts = append(parts, i.p.Notes)
	}

	return strings.Join(parts, " • ")
}

func (i paymentItem) FilterValue() string {
	return i.p.ItemName + " " + i.p.Notes
}

type PaymentsModel struct {
	CommonModel
	store *ledger.Store

	state     paymentsState
	picker    TimeframePicker
	list      list.Model
	form      *huh.Form
	input     *paymentInput
	timeframe TimeframeSelectedMsg
	report    report.Report
	status    string
}

func NewPaymentsModel(store *ledger.Store) PaymentsModel {
	l := list.New([]list.Item{}, paymentDelegate{}, 0, 0)
	l.Title = "Payments"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return PaymentsModel{
		store:  store,
		picker: NewTimeframePicker(),
		list:   l,
	}
}

func (m PaymentsModel) Title() string { return "Payments" }

func (m PaymentsModel) ShortHelp() string {
	switch m.state {
	case paymentsStateTimeframe:
		return "Esc: back | Enter: select"
	case paymentsStateList:
		return "Esc: back | a: add | e: edit | d: delete | t: timeframe | /: filter"
	case paymentsStateForm:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m PaymentsModel) Init() tea.Cmd {
	return nil
}

func (m PaymentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.state = paymentsStateList
		m.status = ""
		m.refresh()

		return m, nil

	case paymentSavedMsg:
		m.state = paymentsStateList
		m.form = nil
		m.status = msg.status

		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		}

		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil
	}

	switch m.state {
	case paymentsStateTimeframe:
		return m.updateTimeframe(msg)
	case paymentsStateList:
		return m.updateList(msg)
	case paymentsStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m PaymentsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m PaymentsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		switch key.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break // clear the filter first
			}

			return m, Back
		case "t":
			m.picker.Reset()
			m.state = paymentsStateTimeframe

			return m, nil
		case "a":
			return m.openForm(paymentActionAdd, ledger.Payment{})
		case "e", "d":
			selected, ok := m.list.SelectedItem().(paymentItem)
			if !ok {
				return m, nil
			}

			if key.String() == "e" {
				return m.openForm(paymentActionEdit, selected.p)
			}

			return m.openForm(paymentActionDelete, selected.p)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m PaymentsModel) openForm(action paymentAction, p ledger.Payment) (tea.Model, tea.Cmd) {
	m.input = &paymentInput{action: action, target: p}

	var group *huh.Group

	switch action {
	case paymentActionAdd:
		m.input.date = FormatDate(ledger.Day(time.Now()))
		group = huh.NewGroup(
			huh.NewInput().Title("Paid for").Value(&m.input.name).Validate(required("name")),
			huh.NewInput().Title("Amount").Value(&m.input.amount).Validate(positiveAmount),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&m.input.date).Validate(optionalDate),
			huh.NewInput().Title("Notes").Value(&m.input.notes),
		)
	case paymentActionEdit:
		m.input.name = p.ItemName
		m.input.amount = fmt.Sprint(p.Amount)
		m.input.date = FormatDate(p.Date)
		m.input.notes = p.Notes

		group = huh.NewGroup(
			huh.NewInput().Title("Paid for").Value(&m.input.name).Validate(required("name")),
			huh.NewInput().
				Title("Amount").
				Description("Changing it adjusts what the stage or expense has been paid.").
				Value(&m.input.amount).
				Validate(positiveAmount),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&m.input.date).Validate(optionalDate),
			huh.NewInput().Title("Notes").Value(&m.input.notes),
		)
	case paymentActionDelete:
		group = huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s payment to %s?", FormatAmount(p.Amount), p.ItemName)).
				Description("The amount is taken off what the stage or expense has been paid.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.input.confirm),
		)
	}

	m.form = huh.NewForm(group).WithWidth(50).WithShowHelp(false)
	m.state = paymentsStateForm

	return m, m.form.Init()
}

func (m PaymentsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = paymentsStateList
		m.form = nil

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

func (m PaymentsModel) View() string {
	switch m.state {
	case paymentsStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case paymentsStateForm:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(panelStyle.Width(56).Render(m.form.View()))
	}

	totals := m.report.Summary
	header := fmt.Sprintf(
		"%s • %s in %d payments (construction %s, expenses %s, other %s)",
		activeStyle(m.timeframe.Label),
		activeStyle(FormatAmount(totals.Total)),
		totals.Count,
		FormatAmount(totals.Construction),
		FormatAmount(totals.Expense),
		FormatAmount(totals.Other),
	)

	content := header + "\n\n" + m.list.View()
	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PaymentsModel) refresh() {
	m.report = report.Build(m.store.Payments(), m.timeframe.Start, m.timeframe.End)

	items := make([]list.Item, len(m.report.Payments))
	for i, p := range m.report.Payments {
		items[i] = paymentItem{p: p}
	}

	m.list.SetItems(items)
}

type paymentSavedMsg struct {
	status string
	err    error
}

func (m PaymentsModel) saveCmd(in paymentInput) tea.Cmd {
	store := m.store

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		switch in.action {
		case paymentActionAdd:
			amount, err := ParseAmount(in.amount)
			if err != nil {
				return paymentSavedMsg{err: err}
			}

			p, err := store.AddManualPayment(ctx, ledger.NewPayment{
				ItemName: in.name,
				Amount:   amount,
				Date:     parseOptionalDate(in.date),
				Notes:    in.notes,
			})
			if err != nil {
				return paymentSavedMsg{err: err}
			}

			return paymentSavedMsg{status: fmt.Sprintf("Recorded %s to %s", FormatAmount(p.Amount), p.ItemName)}

		case paymentActionEdit:
			amount, err := ParseAmount(in.amount)
			if err != nil {
				return paymentSavedMsg{err: err}
			}

			patch := ledger.PaymentPatch{
				ItemName: &in.name,
				Amount:   &amount,
				Notes:    &in.notes,
			}

			if d := parseOptionalDate(in.date); !d.IsZero() {
				patch.Date = &d
			}

			if _, err := store.UpdatePayment(ctx, in.target.ID, patch); err != nil {
				return paymentSavedMsg{err: err}
			}

			return paymentSavedMsg{status: "Payment updated"}

		case paymentActionDelete:
			if !in.confirm {
				return paymentSavedMsg{}
			}

			if !store.DeletePayment(ctx, in.target.ID) {
				return paymentSavedMsg{err: fmt.Errorf("payment %s no longer exists", in.target.ID)}
			}

			return paymentSavedMsg{status: "Payment deleted"}
		}

		return paymentSavedMsg{}
	}
}

// paymentDelegate renders payments as two-line entries.
type paymentDelegate struct{}

func (d paymentDelegate) Height() int                             { return 2 }
func (d paymentDelegate) Spacing() int                            { return 0 }
func (d paymentDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d paymentDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(paymentItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
