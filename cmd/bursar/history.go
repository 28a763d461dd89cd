package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwhitfield/bursar/internal/reviews"
	"github.com/mwhitfield/bursar/pkg/database"
	"github.com/mwhitfield/bursar/pkg/pagination"
)

var (
	historyPage      int
	historyPageSize  int
	historySearch    string
	historySort      string
	historyTicket    string
	historyApproved  bool
	historyRejected  bool
	historyUndecided bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded reviews",
	Long: `History pages through the review audit table. It requires a configured
database; reviews run without one are not recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd.Context())
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyPage, "page", 1, "page to fetch")
	historyCmd.Flags().IntVar(&historyPageSize, "page-size", 0, "reviews per page (0 uses the configured default)")
	historyCmd.Flags().StringVar(&historySearch, "search", "", "match against filename, ticket ID, and comment")
	historyCmd.Flags().StringVar(&historySort, "sort", "", "comma-separated sort fields; prefix with - for descending")
	historyCmd.Flags().StringVar(&historyTicket, "ticket", "", "only reviews of this ticket ID")
	historyCmd.Flags().BoolVar(&historyApproved, "approved", false, "only approved reviews")
	historyCmd.Flags().BoolVar(&historyRejected, "rejected", false, "only rejected reviews")
	historyCmd.Flags().BoolVar(&historyUndecided, "undecided", false, "only reviews without a verdict")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(ctx context.Context) error {
	app, err := newRuntime()
	if err != nil {
		return err
	}
	defer app.shutdown()

	sys := app.reviews()
	if sys == nil {
		return fmt.Errorf("%w: set BURSAR_DB_NAME or the database section of config.yaml", database.ErrNotConfigured)
	}

	page := pagination.NewPageRequest(
		historyPage,
		historyPageSize,
		historySearch,
		historySort,
		app.cfg.Review.Pagination,
	)

	result, err := sys.List(ctx, page, historyFilters())
	if err != nil {
		return err
	}

	render(result)
	return nil
}

func historyFilters() reviews.Filters {
	var f reviews.Filters
	if historyTicket != "" {
		f.TicketID = &historyTicket
	}

	switch {
	case historyUndecided:
		f.Undecided = true
	case historyApproved:
		approved := true
		f.Approved = &approved
	case historyRejected:
		rejected := false
		f.Approved = &rejected
	}
	return f
}

func render(result *pagination.PageResult[reviews.Review]) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tFILE\tTICKET\tVERDICT\tCOMMENT")
	for _, r := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.CreatedAt.Format(time.DateTime),
			r.Filename,
			strValue(r.TicketID),
			verdict(r),
			truncate(strValue(r.Comment), 60),
		)
	}
	w.Flush()

	fmt.Printf("page %d of %d, %d review(s)\n", result.Page, result.TotalPages, result.Total)
}

func verdict(r reviews.Review) string {
	switch {
	case r.Approved == nil:
		return "none"
	case *r.Approved:
		return "approved"
	default:
		return "rejected"
	}
}

func strValue(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
