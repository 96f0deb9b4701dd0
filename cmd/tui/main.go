package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/sitebook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/sitebook/internal/app"
	"github.com/MrJamesThe3rd/sitebook/internal/config"
	"github.com/MrJamesThe3rd/sitebook/internal/importer"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/logger"
	"github.com/MrJamesThe3rd/sitebook/internal/matching"
	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

// The terminal belongs to the UI, so logs go to a file.
const logFile = "sitebook-tui.log"

type model struct {
	store         *ledger.Store
	importService *importer.Service
	reportService *report.Service

	currentView View
	size        tea.WindowSizeMsg

	stagesView   view.StagesModel
	expensesView view.ExpensesModel
	paymentsView view.PaymentsModel
	summaryView  view.SummaryModel
	reportView   view.ReportModel
	importView   view.ImportModel
}

type View int

const (
	ViewMenu View = iota
	ViewStages
	ViewExpenses
	ViewPayments
	ViewSummary
	ViewReport
	ViewImport
)

func initialModel(store *ledger.Store) model {
	impSvc := importer.NewService(importer.WithCategorizer(matching.NewService(store)))
	repSvc := report.NewService(store)

	return model{
		store:         store,
		importService: impSvc,
		reportService: repSvc,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	return m.updateCurrent(msg)
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewStages
		m.stagesView = view.NewStagesModel(m.store)
	case "2":
		m.currentView = ViewExpenses
		m.expensesView = view.NewExpensesModel(m.store)
	case "3":
		m.currentView = ViewPayments
		m.paymentsView = view.NewPaymentsModel(m.store)
	case "4":
		m.currentView = ViewSummary
		m.summaryView = view.NewSummaryModel(m.store, m.reportService)
	case "5":
		m.currentView = ViewReport
		m.reportView = view.NewReportModel(m.reportService)
	case "6":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.store, m.importService)
	default:
		return m, nil
	}

	// Views start unsized until the first resize, so hand them the last known size.
	var initCmd tea.Cmd
	if m.size.Width > 0 {
		var mdl tea.Model
		mdl, initCmd = m.updateCurrent(m.size)
		m = mdl.(model)
	}

	return m, tea.Batch(initCmd, m.initCurrent())
}

func (m model) initCurrent() tea.Cmd {
	switch m.currentView {
	case ViewStages:
		return m.stagesView.Init()
	case ViewExpenses:
		return m.expensesView.Init()
	case ViewPayments:
		return m.paymentsView.Init()
	case ViewSummary:
		return m.summaryView.Init()
	case ViewReport:
		return m.reportView.Init()
	case ViewImport:
		return m.importView.Init()
	}

	return nil
}

func (m model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		next tea.Model
		cmd  tea.Cmd
	)

	switch m.currentView {
	case ViewStages:
		next, cmd = m.stagesView.Update(msg)
		m.stagesView = next.(view.StagesModel)
	case ViewExpenses:
		next, cmd = m.expensesView.Update(msg)
		m.expensesView = next.(view.ExpensesModel)
	case ViewPayments:
		next, cmd = m.paymentsView.Update(msg)
		m.paymentsView = next.(view.PaymentsModel)
	case ViewSummary:
		next, cmd = m.summaryView.Update(msg)
		m.summaryView = next.(view.SummaryModel)
	case ViewReport:
		next, cmd = m.reportView.Update(msg)
		m.reportView = next.(view.ReportModel)
	case ViewImport:
		next, cmd = m.importView.Update(msg)
		m.importView = next.(view.ImportModel)
	}

	return m, cmd
}

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)

func (m model) View() string {
	var title, help, body string

	switch m.currentView {
	case ViewMenu:
		p := m.store.Project()

		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Sitebook: %s\n\n", p.Name) +
				"1. Construction Stages\n" +
				"2. Expenses\n" +
				"3. Payments\n" +
				"4. Project Summary\n" +
				"5. Payment Report\n" +
				"6. Import Expenses\n\n" +
				"q. Quit",
		)
	case ViewStages:
		title, help, body = m.stagesView.Title(), m.stagesView.ShortHelp(), m.stagesView.View()
	case ViewExpenses:
		title, help, body = m.expensesView.Title(), m.expensesView.ShortHelp(), m.expensesView.View()
	case ViewPayments:
		title, help, body = m.paymentsView.Title(), m.paymentsView.ShortHelp(), m.paymentsView.View()
	case ViewSummary:
		title, help, body = m.summaryView.Title(), m.summaryView.ShortHelp(), m.summaryView.View()
	case ViewReport:
		title, help, body = m.reportView.Title(), m.reportView.ShortHelp(), m.reportView.View()
	case ViewImport:
		title, help, body = m.importView.Title(), m.importView.ShortHelp(), m.importView.View()
	default:
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 2, 0).Render(title),
		body,
		helpStyle.Render(help),
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	log := logger.New(f, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	l, err := app.Open(context.Background(), cfg, log)
	if err != nil {
		slog.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(l.Store), tea.WithAltScreen())
	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := l.Close(ctx); err != nil {
		slog.Error("failed to close ledger", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}
