// Package extraction turns raw report section text into structured expense
// records using a language model agent. Model and parse failures degrade to
// zero-valued records so a review can still run to completion and reject.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/mwhitfield/bursar/internal/expense"
	"github.com/mwhitfield/bursar/internal/prompts"
	"github.com/mwhitfield/bursar/pkg/formatting"
)

// System performs the structured extraction stages of a review.
// Implementations report missing information as nil or zero fields rather
// than errors; an error return is reserved for cancellation.
type System interface {
	// Header extracts destination, ticket ID, and time period from the
	// header section.
	Header(ctx context.Context, text string) (expense.HeaderExtraction, error)
	// Invoices extracts the line items of the invoices section.
	Invoices(ctx context.Context, text string) (expense.InvoicesExtraction, error)
	// Summary extracts totals and the time period from the summary section.
	Summary(ctx context.Context, text string) (expense.SummaryExtraction, error)
	// DailyRate matches the destination against the allowance rate table.
	// A destination matching no table city yields a selection with nil
	// fields.
	DailyRate(ctx context.Context, destination *string, rates map[string]float64) (expense.RateSelection, error)
}

type system struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

// New creates an extraction system backed by the configured agent. Each call
// constructs its own agent instance, so a single System is safe for
// concurrent use.
func New(agent gaconfig.AgentConfig, logger *slog.Logger) System {
	return &system{
		agent:  agent,
		logger: logger.With("system", "extraction"),
	}
}

func (s *system) Header(ctx context.Context, text string) (expense.HeaderExtraction, error) {
	return extract[expense.HeaderExtraction](ctx, s, prompts.StageHeader, text)
}

func (s *system) Invoices(ctx context.Context, text string) (expense.InvoicesExtraction, error) {
	return extract[expense.InvoicesExtraction](ctx, s, prompts.StageInvoices, text)
}

func (s *system) Summary(ctx context.Context, text string) (expense.SummaryExtraction, error) {
	return extract[expense.SummaryExtraction](ctx, s, prompts.StageSummary, text)
}

func (s *system) DailyRate(ctx context.Context, destination *string, rates map[string]float64) (expense.RateSelection, error) {
	dest := ""
	if destination != nil {
		dest = *destination
	}

	ratesJSON, err := json.Marshal(rates)
	if err != nil {
		return expense.RateSelection{}, fmt.Errorf("serialize rate table: %w", err)
	}

	payload := fmt.Sprintf("Destination:\n%s\n\nRate table (JSON):\n%s", dest, ratesJSON)
	return extract[expense.RateSelection](ctx, s, prompts.StageRate, payload)
}

// extract runs one extraction stage: compose the prompt, query the agent,
// parse the response. Failures past cancellation degrade to the zero value
// with a warning so downstream checks see absent data instead of a dead run.
func extract[T any](ctx context.Context, s *system, stage prompts.Stage, payload string) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	prompt, err := prompts.Compose(stage, payload)
	if err != nil {
		return zero, fmt.Errorf("compose %s prompt: %w", stage, err)
	}

	a, err := agent.New(&s.agent)
	if err != nil {
		s.logger.Warn("agent creation failed", "stage", stage, "error", err)
		return zero, nil
	}

	start := time.Now()
	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		s.logger.Warn("model call failed", "stage", stage, "error", err)
		return zero, nil
	}

	parsed, err := formatting.Parse[T](resp.Content())
	if err != nil {
		s.logger.Warn("response parse failed", "stage", stage, "error", err)
		return zero, nil
	}

	s.logger.Debug("extraction stage complete",
		"stage", stage,
		"latency", time.Since(start).Round(time.Millisecond))

	return parsed, nil
}
