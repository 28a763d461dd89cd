package workflow

import (
	"context"
	"fmt"
	"time"
)

// Steps returns the review pipeline in pipeline order: two roots
// (extract_pdf, get_allowances) fanning into the extraction and check
// branches, converging on approval_decision, terminating at
// update_ticket_status.
func Steps(rt *Runtime) []Step {
	return []Step{
		ExtractPDFStep(rt),
		ExtractDataStep(rt),
		GetAllowancesStep(rt),
		CheckTicketExistsStep(rt),
		CheckTotalStep(rt),
		SelectDailyRateStep(rt),
		CompareDatesStep(rt),
		AllowanceCheckStep(rt),
		ApprovalDecisionStep(rt),
		UpdateTicketStatusStep(rt),
	}
}

// Build derives and validates the review graph. The pdf_path seed is the
// only field the initial state provides.
func Build(rt *Runtime) (*Graph, error) {
	return NewGraph(Steps(rt), []Field{FieldPDFPath})
}

// Result is the outcome of one review run. State carries whatever fields
// the run produced; a degraded run may end without a decision.
type Result struct {
	PDFPath     string
	State       State
	Report      *Report
	Duration    time.Duration
	CompletedAt time.Time
}

// Review runs the full pipeline for the report PDF at pdfPath. The run
// completes even when branches degrade; the returned error is reserved for
// graph construction problems, cancellation, and step failures.
func Review(ctx context.Context, rt *Runtime, pdfPath string) (*Result, error) {
	if pdfPath == "" {
		return nil, ErrMissingPDFPath
	}

	graph, err := Build(rt)
	if err != nil {
		return nil, fmt.Errorf("build review graph: %w", err)
	}

	started := time.Now()
	final, report, err := graph.Run(ctx, State{PDFPath: pdfPath}, rt.Logger)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PDFPath:     pdfPath,
		State:       final,
		Report:      report,
		Duration:    time.Since(started),
		CompletedAt: time.Now(),
	}

	if final.Decision != nil {
		rt.Logger.InfoContext(ctx, "review complete",
			"path", pdfPath,
			"approve", final.Decision.Approve,
			"duration", result.Duration.Round(time.Millisecond))
	} else {
		rt.Logger.WarnContext(ctx, "review ended without a decision",
			"path", pdfPath,
			"duration", result.Duration.Round(time.Millisecond))
	}

	return result, nil
}
