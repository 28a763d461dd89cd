package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwhitfield/bursar/internal/reviews"
	"github.com/mwhitfield/bursar/internal/workflow"
)

var reviewCmd = &cobra.Command{
	Use:   "review <pdf>",
	Short: "Review a travel expense report PDF",
	Long: `Review runs the full pipeline over one report: extract the PDF text,
pull out the header, invoices, and summary, check the invoice total, travel
periods, ticket, and allowance, and write the verdict back to the backend.

A report that cannot be fully processed still finishes; checks that never ran
show up in the log as skipped and the run ends without a verdict.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("report not found: %s", path)
		}
		return fmt.Errorf("stat report: %w", err)
	}

	app, err := newRuntime()
	if err != nil {
		return err
	}
	defer app.shutdown()

	rt, err := app.workflowRuntime()
	if err != nil {
		return err
	}

	res, err := workflow.Review(ctx, rt, path)
	if err != nil {
		return err
	}

	printVerdict(res)
	record(ctx, app, res, path)
	return nil
}

func printVerdict(res *workflow.Result) {
	decision := res.State.Decision
	switch {
	case decision == nil:
		fmt.Println("NO DECISION")
		fmt.Println("The review degraded before a verdict; the log names the skipped steps.")
	case decision.Approve:
		fmt.Println("APPROVED")
		fmt.Println(decision.Comment)
	default:
		fmt.Println("REJECTED")
		fmt.Println(decision.Comment)
	}
}

// record persists the audit row when a database is configured. Failures are
// logged, not raised: the printed verdict stands.
func record(ctx context.Context, app *runtime, res *workflow.Result, path string) {
	sys := app.reviews()
	if sys == nil {
		return
	}

	var data []byte
	if app.infra.Storage != nil {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			app.infra.Logger.Warn("report read for archive failed", "path", path, "error", err)
			data = nil
		}
	}

	rev, err := sys.Record(ctx, reviews.NewRecordCommand(res, data))
	if err != nil {
		app.infra.Logger.Error("review record failed", "error", err)
		return
	}

	fmt.Printf("recorded %s\n", rev.ID)
}
