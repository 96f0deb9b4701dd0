package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

func newSummaryCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Project totals and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			p := e.store().Project()
			sum := e.store().Summary()
			st := e.store().StageStats()

			fmt.Fprintf(out, "%s\n%s · %s\n\n", titleStyle.Render(p.Name), p.Location, p.Engineer)

			renderTable(out, "", []string{"", "Cost", "Paid", "Balance"}, [][]string{
				{"Construction", rupees(sum.TotalConstructionCost), rupees(sum.PaidConstruction), rupees(sum.BalanceConstruction)},
				{"Expenses", rupees(sum.TotalExpenses), rupees(sum.PaidExpenses), rupees(sum.BalanceExpenses)},
				{"Total", rupees(sum.TotalProjectCost), rupees(sum.TotalPaid), rupees(sum.TotalBalance)},
			}, 1, 2, 3)

			fmt.Fprintf(out, "Current stage: %s · %d/%d stages completed · construction %d%% · overall paid %d%%\n",
				st.CurrentStage, st.Completed, st.Total, sum.ConstructionProgress, sum.OverallProgress)

			return nil
		},
	}
}

func newStagesCommand(e *env) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "stages",
		Short: "List construction stages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := [][]string{}

			for _, st := range e.store().SearchStages(query) {
				rows = append(rows, []string{
					string(st.ID), st.Name, itoa(st.Percentage) + "%",
					rupees(st.Amount), rupees(st.Paid), rupees(st.Balance()),
					string(st.Status), day(st.Date),
				})
			}

			renderTable(cmd.OutOrStdout(), "Stages",
				[]string{"ID", "Stage", "Share", "Amount", "Paid", "Balance", "Status", "Date"}, rows, 2, 3, 4, 5)

			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name or notes")

	return cmd
}

func newExpensesCommand(e *env) *cobra.Command {
	var (
		category string
		status   string
		query    string
	)

	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List expenses outside the staged budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses := e.store().FindExpenses(ledger.ExpenseFilter{
				Category: ledger.Category(category),
				Status:   ledger.ExpenseStatus(status),
				Query:    query,
			})

			rows := [][]string{}

			for _, ex := range expenses {
				rows = append(rows, []string{
					string(ex.ID), ex.Name, string(ex.Category), ex.Vendor,
					rupees(ex.Amount), rupees(ex.Paid), string(ex.Status), day(ex.Date),
				})
			}

			renderTable(cmd.OutOrStdout(), "Expenses",
				[]string{"ID", "Expense", "Category", "Vendor", "Amount", "Paid", "Status", "Date"}, rows, 4, 5)

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this category")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only pending or paid expenses")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name, notes, vendor or category")

	return cmd
}

func newPaymentsCommand(e *env) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List payments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseDay("start", start)
			if err != nil {
				return err
			}

			to, err := parseDay("end", end)
			if err != nil {
				return err
			}

			period := report.Period{Start: from, End: to}
			rows := [][]string{}

			for _, p := range e.store().Payments() {
				if !period.Contains(p.Date) {
					continue
				}

				rows = append(rows, []string{
					string(p.ID), day(p.Date), p.ItemName, string(p.Type),
					rupees(p.Amount), rupees(p.Balance), p.Notes,
				})
			}

			renderTable(cmd.OutOrStdout(), "Payments",
				[]string{"ID", "Date", "Item", "Type", "Amount", "Balance after", "Notes"}, rows, 4, 5)

			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day to include (YYYY-MM-DD)")

	return cmd
}
