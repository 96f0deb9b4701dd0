// Package command implements the sitebook command line.
package command

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sitebook/internal/app"
	"github.com/MrJamesThe3rd/sitebook/internal/config"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/logger"
)

// env is the state shared by every subcommand. The ledger is opened lazily
// before the first command runs and closed by Run.
type env struct {
	ledger *app.Ledger
	log    *slog.Logger
}

func (e *env) store() *ledger.Store {
	return e.ledger.Store
}

func (e *env) open(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	e.log = logger.New(cmd.ErrOrStderr(), logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	l, err := app.Open(cmd.Context(), cfg, e.log)
	if err != nil {
		return err
	}

	e.ledger = l

	return nil
}

func newRootCommand(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:               "sitebook",
		Short:             "Construction project ledger",
		Long:              "Track construction stages, side expenses and every payment made against them.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.open,
	}

	root.AddCommand(
		newSummaryCommand(e),
		newStagesCommand(e),
		newExpensesCommand(e),
		newPaymentsCommand(e),
		newPayCommand(e),
		newReportCommand(e),
		newExportCommand(e),
		newImportCommand(e),
		newImportExpensesCommand(e),
		newResetCommand(e),
	)

	return root
}

// Run executes the command line in args and flushes the ledger afterwards.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	e := &env{}

	root := newRootCommand(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	if e.ledger != nil {
		err = errors.Join(err, e.ledger.Close(context.WithoutCancel(ctx)))
	}

	return err
}
