package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sitebook/internal/importer"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/matching"
)

func newExportCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write a JSON backup of the ledger (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating backup: %w", err)
				}
				defer f.Close()

				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")

			if err := enc.Encode(e.store().Export()); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}

			return nil
		},
	}
}

func newImportCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a JSON backup (- for stdin)",
		Long:  "Restore a JSON backup. Collections missing from the file are left as they are.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			var snap ledger.Snapshot
			if err := json.NewDecoder(r).Decode(&snap); err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}

			if err := e.store().Import(cmd.Context(), snap); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d stages, %d expenses, %d payments\n",
				len(e.store().Stages()), len(e.store().Expenses()), len(e.store().Payments()))

			return nil
		},
	}
}

func newImportExpensesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import-expenses <csv>",
		Short: "Add expenses from a spreadsheet, vendor bill or bank statement export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			store := e.store()
			svc := importer.NewService(importer.WithCategorizer(matching.NewService(store)))

			added, err := svc.Import(cmd.Context(), importer.FormatCSV, r, store)
			for _, ex := range added {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s  %s  %s\n", ex.ID, ex.Name, rupees(ex.Amount))
			}

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses\n", len(added))

			return nil
		},
	}
}

func newResetCommand(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all changes and restore the seed project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset discards all ledger changes; pass --yes to confirm")
			}

			e.store().Reset(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Ledger reset to seed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return f, func() { _ = f.Close() }, nil
}
