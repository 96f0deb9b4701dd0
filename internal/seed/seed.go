// Package seed reads the project description and starting ledger from TOML.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

//go:embed default.toml
var defaultTOML string

type file struct {
	Project  projectFile   `toml:"project"`
	Stages   []stageFile   `toml:"stages"`
	Expenses []expenseFile `toml:"expenses"`
}

type projectFile struct {
	Name                string `toml:"name"`
	Engineer            string `toml:"engineer"`
	Location            string `toml:"location"`
	PerSqftRate         int64  `toml:"per_sqft_rate"`
	TotalSqft           int64  `toml:"total_sqft"`
	TotalCost           int64  `toml:"total_cost,omitempty"`
	StartDate           string `toml:"start_date"`
	EstimatedCompletion string `toml:"estimated_completion"`
}

type stageFile struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Percentage int    `toml:"percentage"`
	Amount     int64  `toml:"amount,omitempty"`
	Paid       int64  `toml:"paid"`
	Date       string `toml:"date"`
	Notes      string `toml:"notes"`
}

type expenseFile struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Amount   int64  `toml:"amount"`
	Paid     int64  `toml:"paid"`
	Date     string `toml:"date"`
	Category string `toml:"category"`
	Notes    string `toml:"notes"`
	Vendor   string `toml:"vendor"`
}

// Default returns the built-in PGK Construction project.
func Default() (ledger.Seed, error) {
	return Parse(defaultTOML)
}

// Load reads a seed file. An empty path means Default.
func Load(path string) (ledger.Seed, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ledger.Seed{}, fmt.Errorf("reading seed: %w", err)
	}

	seed, err := Parse(string(data))
	if err != nil {
		return ledger.Seed{}, fmt.Errorf("%s: %w", path, err)
	}

	return seed, nil
}

// Parse decodes a seed document. Stages without an amount are priced from
// the project's total cost; a project without a total cost gets rate × area.
func Parse(doc string) (ledger.Seed, error) {
	var f file

	md, err := toml.Decode(doc, &f)
	if err != nil {
		return ledger.Seed{}, fmt.Errorf("decoding seed: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return ledger.Seed{}, fmt.Errorf("unknown seed key %q", undecoded[0].String())
	}

	project, err := f.Project.toProject()
	if err != nil {
		return ledger.Seed{}, err
	}

	seed := ledger.Seed{Project: project}
	ids := make(map[string]bool)

	for i, sf := range f.Stages {
		st, err := sf.toStage(project.TotalCost)
		if err != nil {
			return ledger.Seed{}, fmt.Errorf("stage %d: %w", i+1, err)
		}

		if ids["s:"+sf.ID] {
			return ledger.Seed{}, fmt.Errorf("stage %d: duplicate id %q", i+1, sf.ID)
		}

		ids["s:"+sf.ID] = true
		seed.Stages = append(seed.Stages, st)
	}

	for i, ef := range f.Expenses {
		e, err := ef.toExpense()
		if err != nil {
			return ledger.Seed{}, fmt.Errorf("expense %d: %w", i+1, err)
		}

		if ids["e:"+ef.ID] {
			return ledger.Seed{}, fmt.Errorf("expense %d: duplicate id %q", i+1, ef.ID)
		}

		ids["e:"+ef.ID] = true
		seed.Expenses = append(seed.Expenses, e)
	}

	return seed, nil
}

func (p projectFile) toProject() (ledger.Project, error) {
	start, err := parseDate(p.StartDate)
	if err != nil {
		return ledger.Project{}, fmt.Errorf("project start_date: %w", err)
	}

	completion, err := parseDate(p.EstimatedCompletion)
	if err != nil {
		return ledger.Project{}, fmt.Errorf("project estimated_completion: %w", err)
	}

	total := p.TotalCost
	if total == 0 {
		total = p.PerSqftRate * p.TotalSqft
	}

	if total <= 0 {
		return ledger.Project{}, errors.New("project total_cost must be positive")
	}

	return ledger.Project{
		Name:        p.Name,
		Engineer:    p.Engineer,
		Location:    p.Location,
		PerSqftRate: p.PerSqftRate,
		TotalSqft:   p.TotalSqft,
		TotalCost:   total,
		StartDate:   start,
		Completion:  completion,
	}, nil
}

func (s stageFile) toStage(totalCost int64) (ledger.Stage, error) {
	if s.ID == "" || strings.TrimSpace(s.Name) == "" {
		return ledger.Stage{}, errors.New("id and name are required")
	}

	if s.Percentage < 1 || s.Percentage > 100 {
		return ledger.Stage{}, fmt.Errorf("percentage %d outside 1-100", s.Percentage)
	}

	if s.Paid < 0 {
		return ledger.Stage{}, errors.New("paid must not be negative")
	}

	date, err := parseDate(s.Date)
	if err != nil {
		return ledger.Stage{}, err
	}

	amount := s.Amount
	if amount == 0 {
		amount = ledger.StageAmount(totalCost, s.Percentage)
	}

	return ledger.Stage{
		ID:         ledger.ID(s.ID),
		Name:       strings.TrimSpace(s.Name),
		Percentage: s.Percentage,
		Amount:     amount,
		Paid:       s.Paid,
		Status:     ledger.StageStatusOf(s.Paid, amount),
		Date:       date,
		Notes:      s.Notes,
	}, nil
}

func (e expenseFile) toExpense() (ledger.Expense, error) {
	if e.ID == "" || strings.TrimSpace(e.Name) == "" {
		return ledger.Expense{}, errors.New("id and name are required")
	}

	if e.Amount <= 0 {
		return ledger.Expense{}, errors.New("amount must be positive")
	}

	if e.Paid < 0 {
		return ledger.Expense{}, errors.New("paid must not be negative")
	}

	category := ledger.Category(e.Category)
	if category == "" {
		category = ledger.CategoryOther
	}

	if !category.Valid() {
		return ledger.Expense{}, fmt.Errorf("unknown category %q", e.Category)
	}

	date, err := parseDate(e.Date)
	if err != nil {
		return ledger.Expense{}, err
	}

	return ledger.Expense{
		ID:       ledger.ID(e.ID),
		Name:     strings.TrimSpace(e.Name),
		Amount:   e.Amount,
		Paid:     e.Paid,
		Status:   ledger.ExpenseStatusOf(e.Paid, e.Amount),
		Category: category,
		Date:     date,
		Notes:    e.Notes,
		Vendor:   e.Vendor,
	}, nil
}

// parseDate reads YYYY-MM-DD. Empty means no date.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}

	return t, nil
}
