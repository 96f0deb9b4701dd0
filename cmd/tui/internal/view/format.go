package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

const storeTimeout = 5 * time.Second

// FormatAmount renders whole rupees as INR, e.g. ₹50,000.00.
func FormatAmount(rupees int64) string {
	return ledger.FormatRupees(rupees)
}

// FormatDate formats a day as YYYY-MM-DD, or "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(time.DateOnly)
}

// ParseAmount reads a rupee amount typed by the user. Digit grouping commas
// and a leading ₹ are ignored and fractions are rounded.
func ParseAmount(s string) (int64, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(s), "₹")
	clean = strings.ReplaceAll(clean, ",", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("not an amount")
	}

	return d.Round(0).IntPart(), nil
}

func positiveAmount(s string) error {
	n, err := ParseAmount(s)
	if err != nil {
		return err
	}

	if n <= 0 {
		return fmt.Errorf("must be more than zero")
	}

	return nil
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

func parseOptionalDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return t
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", label)
		}

		return nil
	}
}

// storeCtx bounds a ledger write, which may reach a remote backend.
func storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
