package expensecsv

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

var currencyPrefixes = []string{"₹", "rs.", "rs", "inr"}

// parseRupees parses an Indian-formatted amount into whole rupees.
// Format examples: "1,03,125" -> 103125, "₹ 7,500.50" -> 7501, "Rs. -250" -> -250.
func parseRupees(s string) (int64, error) {
	clean := strings.ToLower(strings.TrimSpace(s))

	for _, prefix := range currencyPrefixes {
		if after, ok := strings.CutPrefix(clean, prefix); ok {
			clean = after
			break
		}
	}

	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if clean == "" {
		return 0, errEmptyAmount
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Round(0).IntPart(), nil
}
