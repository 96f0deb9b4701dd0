package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/sitebook/internal/importer/expensecsv"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// ExpenseAdder is the slice of the ledger store the importer writes to.
type ExpenseAdder interface {
	AddExpense(ctx context.Context, in ledger.NewExpense) (ledger.Expense, error)
}

// Categorizer fills in categories a sheet left blank.
type Categorizer interface {
	Categorize(rows []ledger.NewExpense) []ledger.NewExpense
}

type Service struct {
	csvImporter Importer
	categorizer Categorizer
}

type Option func(*Service)

// WithCategorizer runs c over every parsed sheet.
func WithCategorizer(c Categorizer) Option {
	return func(s *Service) { s.categorizer = c }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		csvImporter: expensecsv.NewParser(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Parse(format Format, r io.Reader) ([]ledger.NewExpense, error) {
	var importer Importer

	switch format {
	case FormatCSV:
		importer = s.csvImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	rows, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	if s.categorizer != nil {
		rows = s.categorizer.Categorize(rows)
	}

	return rows, nil
}

// Import parses r and adds every row to the ledger. Rows added before a
// failing one are kept, and the error names the failing row.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader, dst ExpenseAdder) ([]ledger.Expense, error) {
	params, err := s.Parse(format, r)
	if err != nil {
		return nil, err
	}

	added := make([]ledger.Expense, 0, len(params))

	for i, p := range params {
		e, err := dst.AddExpense(ctx, p)
		if err != nil {
			return added, fmt.Errorf("add expense %d (%s): %w", i+1, p.Name, err)
		}

		added = append(added, e)
	}

	return added, nil
}
