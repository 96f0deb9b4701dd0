package command

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

const reportWrap = 100

func newReportCommand(e *env) *cobra.Command {
	var (
		start, end string
		raw        bool
		outDir     string
		upcoming   int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Payment report for a date range",
		Long:  "Render the project position and the payments made in a date range. Both bounds are inclusive and optional.",
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

			svc := report.NewService(e.store())
			out := cmd.OutOrStdout()

			if outDir != "" {
				paths, err := svc.Export(outDir, from, to)
				if err != nil {
					return err
				}

				for _, p := range paths {
					fmt.Fprintln(out, "wrote", p)
				}

				return nil
			}

			md := svc.Markdown(from, to) + upcomingMarkdown(svc.Upcoming(upcoming))

			if raw {
				fmt.Fprint(out, md)
				return nil
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(reportWrap),
			)
			if err != nil {
				return fmt.Errorf("creating renderer: %w", err)
			}

			rendered, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}

			fmt.Fprint(out, rendered)

			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without rendering")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write markdown and CSV files into this directory instead")
	cmd.Flags().IntVar(&upcoming, "upcoming", 3, "Number of upcoming stage payments to list")

	return cmd
}

func upcomingMarkdown(due []report.Due) string {
	if len(due) == 0 {
		return ""
	}

	md := "\n## Upcoming stage payments\n\n| Stage | Status | Due |\n|---|---|---:|\n"
	for _, d := range due {
		md += fmt.Sprintf("| %s | %s | %s |\n", d.Stage, d.Status, rupees(d.Amount))
	}

	return md
}
