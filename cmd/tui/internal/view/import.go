package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sitebook/internal/importer"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateParsing
	importStatePreview
	importStateResult
)

type ImportModel struct {
	CommonModel
	store         *ledger.Store
	importService *importer.Service

	state      importState
	filePicker filepicker.Model

	rows     []importRow
	preview  list.Model
	selected map[int]bool

	status string
	err    error
}

// importRow is a parsed expense and whether the ledger already has one like it.
type importRow struct {
	expense   ledger.NewExpense
	duplicate bool
}

func NewImportModel(store *ledger.Store, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".tsv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		store:         store,
		importService: impSvc,
		filePicker:    fp,
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Space: toggle | a: all | n: none | Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case parsedMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.rows) == 0 {
			m.state = importStateResult
			m.status = "No expenses found in the file."

			return m, nil
		}

		m.rows = msg.rows
		m.selected = make(map[int]bool, len(msg.rows))

		items := make([]list.Item, len(m.rows))
		for i, r := range m.rows {
			m.selected[i] = !r.duplicate
			items[i] = importItem{row: r, index: i}
		}

		m.preview = list.New(items, importDelegate{selected: m.selected}, 90, 20)
		m.preview.Title = fmt.Sprintf("%d expenses found", len(m.rows))
		m.preview.SetShowStatusBar(false)
		m.preview.SetFilteringEnabled(false)
		m.preview.SetShowHelp(false)
		m.state = importStatePreview

		return m, nil

	case importedMsg:
		m.state = importStateResult
		m.status = fmt.Sprintf("Imported %d expenses.", msg.count)

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Imported %d expenses, then failed: %v", msg.count, msg.err)
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.rows = nil
		m.selected = make(map[int]bool)
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.preview.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.rows {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.rows {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.importCmd()
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select an expense sheet (CSV):\n\n" + m.filePicker.View(),
		)
	case importStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(
			m.preview.View() + "\n" + faintStyle.Render("Rows marked duplicate match an existing expense and start unselected."),
		)
	case importStateResult:
		style := okStyle
		if m.err != nil {
			style = errorStyle
		}

		return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type parsedMsg struct {
	rows []importRow
	err  error
}

type importedMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	impSvc := m.importService
	existing := m.store.Expenses()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		parsed, err := impSvc.Parse(importer.FormatCSV, f)
		if err != nil {
			return parsedMsg{err: err}
		}

		rows := make([]importRow, len(parsed))
		for i, e := range parsed {
			rows[i] = importRow{expense: e, duplicate: isDuplicate(e, existing)}
		}

		return parsedMsg{rows: rows}
	}
}

// isDuplicate reports whether existing holds an expense with the same name,
// amount and day as e.
func isDuplicate(e ledger.NewExpense, existing []ledger.Expense) bool {
	day := ledger.Day(e.Date)

	for _, x := range existing {
		if x.Amount == e.Amount && x.Date.Equal(day) && strings.EqualFold(x.Name, strings.TrimSpace(e.Name)) {
			return true
		}
	}

	return false
}

func (m ImportModel) importCmd() tea.Cmd {
	store := m.store

	var picked []ledger.NewExpense

	for i, r := range m.rows {
		if m.selected[i] {
			picked = append(picked, r.expense)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		for n, e := range picked {
			if _, err := store.AddExpense(ctx, e); err != nil {
				return importedMsg{count: n, err: err}
			}
		}

		return importedMsg{count: len(picked)}
	}
}

type importItem struct {
	row   importRow
	index int
}

func (i importItem) Title() string       { return i.row.expense.Name }
func (i importItem) Description() string { return i.row.expense.Vendor }
func (i importItem) FilterValue() string { return i.row.expense.Name }

// importDelegate renders parsed rows with a selection checkbox.
type importDelegate struct {
	selected map[int]bool
}

func (d importDelegate) Height() int                             { return 2 }
func (d importDelegate) Spacing() int                            { return 0 }
func (d importDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d importDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(importItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	e := item.row.expense

	category := string(e.Category)
	if category == "" {
		category = string(ledger.CategoryOther)
	}

	line1 := fmt.Sprintf("%s%s %s  %14s  %s", cursor, checkbox, FormatDate(e.Date), FormatAmount(e.Amount), e.Name)

	details := []string{category}
	if e.Vendor != "" {
		details = append(details, e.Vendor)
	}

	if item.row.duplicate {
		details = append(details, errorStyle.Render("duplicate"))
	}

	fmt.Fprintf(w, "%s\n      %s\n", line1, faintStyle.Render(strings.Join(details, " • ")))
}
