package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// newPayCommand raises the paid amount of a stage or expense, which records a payment.
func newPayCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "pay stage|expense <id> <amount>",
		Short:     "Record a payment against a stage or expense",
		Example:   "  sitebook pay stage basement 50,000\n  sitebook pay expense 3 25000",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"stage", "expense"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ledger.ID(args[1])

			amount, err := parseRupees(args[2])
			if err != nil {
				return err
			}

			if amount <= 0 {
				return fmt.Errorf("amount must be positive")
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "stage":
				st, err := e.store().Stage(id)
				if err != nil {
					return err
				}

				st, err = e.store().UpdateStage(ctx, id, ledger.StagePatch{Paid: new(st.Paid + amount)})
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Paid %s on %s. Balance %s (%s)\n", rupees(amount), st.Name, rupees(st.Balance()), st.Status)
			case "expense":
				ex, err := e.store().Expense(id)
				if err != nil {
					return err
				}

				ex, err = e.store().UpdateExpense(ctx, id, ledger.ExpensePatch{Paid: new(ex.Paid + amount)})
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Paid %s on %s. Balance %s (%s)\n", rupees(amount), ex.Name, rupees(ex.Balance()), ex.Status)
			default:
				return fmt.Errorf("pay what? want stage or expense, got %q", args[0])
			}

			return nil
		},
	}
}
