package importer

import (
	"io"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

type Format string

const (
	FormatCSV Format = "csv"
)

// Importer turns an external expense sheet into expenses ready for AddExpense.
type Importer interface {
	Parse(r io.Reader) ([]ledger.NewExpense, error)
}
