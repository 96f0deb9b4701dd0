// Package matching suggests categories for new expenses from the ones
// already in the ledger.
package matching

import (
	"strings"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Repository is the expense history suggestions are drawn from.
type Repository interface {
	Expenses() []ledger.Expense
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the known expense that best matches a new
// one, or "" when nothing matches. A known name contained in the new name
// matches, longest name first; failing that, the same vendor does.
// Expenses filed under other teach nothing and are skipped.
func (s *Service) Suggest(name, vendor string) ledger.Category {
	name = strings.ToLower(strings.TrimSpace(name))
	vendor = strings.TrimSpace(vendor)

	var (
		best      ledger.Category
		bestScore int
	)

	for _, e := range s.repo.Expenses() {
		if e.Category == ledger.CategoryOther || e.Category == "" {
			continue
		}

		score := 0

		known := strings.ToLower(e.Name)
		if known != "" && strings.Contains(name, known) {
			// Name matches always outrank vendor matches.
			score = 1000 + len(known)
		} else if vendor != "" && strings.EqualFold(vendor, e.Vendor) {
			score = len(e.Vendor)
		}

		// Later expenses win ties, so a recategorised name takes over.
		if score > 0 && score >= bestScore {
			best, bestScore = e.Category, score
		}
	}

	return best
}

// Categorize fills in the category of rows left blank or filed under other
// when a suggestion exists. rows is updated in place and returned.
func (s *Service) Categorize(rows []ledger.NewExpense) []ledger.NewExpense {
	for i := range rows {
		if rows[i].Category != "" && rows[i].Category != ledger.CategoryOther {
			continue
		}

		if c := s.Suggest(rows[i].Name, rows[i].Vendor); c != "" {
			rows[i].Category = c
		}
	}

	return rows
}
