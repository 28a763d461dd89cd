package workflow_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/mwhitfield/bursar/internal/expense"
	"github.com/mwhitfield/bursar/internal/workflow"
)

func boolUpdate(f workflow.Field, v bool) workflow.Update {
	var u workflow.Update
	switch f {
	case workflow.FieldTotalOK:
		u.TotalOK = &v
	case workflow.FieldTicketExists:
		u.TicketExists = &v
	}
	return u
}

func TestRunChainMergesBeforeDependents(t *testing.T) {
	sawUpstream := false
	steps := []workflow.Step{
		workflow.NewStep("first", nil, []workflow.Field{workflow.FieldTotalOK},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				return boolUpdate(workflow.FieldTotalOK, true), nil
			}),
		workflow.NewStep("second", []workflow.Field{workflow.FieldTotalOK}, []workflow.Field{workflow.FieldTicketExists},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				sawUpstream = s.Has(workflow.FieldTotalOK)
				return boolUpdate(workflow.FieldTicketExists, true), nil
			}),
	}

	graph, err := workflow.NewGraph(steps, nil)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}

	final, report, err := graph.Run(context.Background(), workflow.State{}, discard())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !sawUpstream {
		t.Error("second step ran before first step's write was merged")
	}
	if final.TotalOK == nil || final.TicketExists == nil {
		t.Errorf("final state missing merged fields: %+v", final)
	}
	for _, name := range []string{"first", "second"} {
		res, ok := report.Result(name)
		if !ok || res.Status != workflow.StatusCompleted {
			t.Errorf("Result(%s) = %+v, want completed", name, res)
		}
	}
}

func TestRunMergesStepFieldsAtomically(t *testing.T) {
	torn := false
	steps := []workflow.Step{
		workflow.NewStep("writer", nil, []workflow.Field{workflow.FieldTicketExists, workflow.FieldTicketData},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				u := boolUpdate(workflow.FieldTicketExists, true)
				u.TicketData = map[string]any{"ticketID": "5"}
				return u, nil
			}),
		workflow.NewStep("reader", []workflow.Field{workflow.FieldTicketExists}, nil,
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				// Both fields come from the same writer, so observing one
				// without the other would be a torn merge.
				if !s.Has(workflow.FieldTicketData) {
					torn = true
				}
				return workflow.Update{}, nil
			}),
	}

	graph, err := workflow.NewGraph(steps, nil)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}
	if _, _, err := graph.Run(context.Background(), workflow.State{}, discard()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if torn {
		t.Error("reader observed a partial merge of the writer's fields")
	}
}

func TestRunSkipsNotReadyAndCascades(t *testing.T) {
	steps := []workflow.Step{
		// Declares the write but degrades to an empty update.
		workflow.NewStep("degraded", nil, []workflow.Field{workflow.FieldSections},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				return workflow.Update{}, nil
			}),
		workflow.NewStep("dependent", []workflow.Field{workflow.FieldSections}, []workflow.Field{workflow.FieldHeader},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				t.Error("dependent ran despite missing input")
				return workflow.Update{}, nil
			}),
		workflow.NewStep("transitive", []workflow.Field{workflow.FieldHeader}, []workflow.Field{workflow.FieldTotalOK},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				t.Error("transitive ran despite missing input")
				return workflow.Update{}, nil
			}),
		workflow.NewStep("independent", nil, []workflow.Field{workflow.FieldTicketExists},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				return boolUpdate(workflow.FieldTicketExists, true), nil
			}),
	}

	graph, err := workflow.NewGraph(steps, nil)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}

	final, report, err := graph.Run(context.Background(), workflow.State{}, discard())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := map[string]workflow.Status{
		"degraded":    workflow.StatusCompleted,
		"dependent":   workflow.StatusNotReady,
		"transitive":  workflow.StatusNotReady,
		"independent": workflow.StatusCompleted,
	}
	for name, status := range want {
		res, ok := report.Result(name)
		if !ok {
			t.Fatalf("Result(%s) missing from report", name)
		}
		if res.Status != status {
			t.Errorf("Result(%s).Status = %s, want %s", name, res.Status, status)
		}
	}

	if final.TicketExists == nil {
		t.Error("independent branch did not complete")
	}
}

func TestRunStepErrorCancelsRemaining(t *testing.T) {
	boom := errors.New("boom")
	steps := []workflow.Step{
		workflow.NewStep("failing", nil, []workflow.Field{workflow.FieldTotalOK},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				return workflow.Update{}, boom
			}),
		workflow.NewStep("downstream", []workflow.Field{workflow.FieldTotalOK}, nil,
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				t.Error("downstream ran after upstream failure")
				return workflow.Update{}, nil
			}),
	}

	graph, err := workflow.NewGraph(steps, nil)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}

	_, report, err := graph.Run(context.Background(), workflow.State{}, discard())
	if !errors.Is(err, workflow.ErrStepFailed) {
		t.Fatalf("Run() error = %v, want %v", err, workflow.ErrStepFailed)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want wrapped %v", err, boom)
	}

	if res, _ := report.Result("failing"); res.Status != workflow.StatusFailed {
		t.Errorf("Result(failing).Status = %s, want %s", res.Status, workflow.StatusFailed)
	}
	if res, _ := report.Result("downstream"); res.Status != workflow.StatusCanceled {
		t.Errorf("Result(downstream).Status = %s, want %s", res.Status, workflow.StatusCanceled)
	}
}

func TestRunRejectsUndeclaredWrite(t *testing.T) {
	steps := []workflow.Step{
		workflow.NewStep("liar", nil, []workflow.Field{workflow.FieldTotalOK},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				return boolUpdate(workflow.FieldTicketExists, true), nil
			}),
	}

	graph, err := workflow.NewGraph(steps, nil)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}

	_, report, err := graph.Run(context.Background(), workflow.State{}, discard())
	if !errors.Is(err, workflow.ErrUndeclaredWrite) {
		t.Fatalf("Run() error = %v, want %v", err, workflow.ErrUndeclaredWrite)
	}
	if res, _ := report.Result("liar"); res.Status != workflow.StatusFailed {
		t.Errorf("Result(liar).Status = %s, want %s", res.Status, workflow.StatusFailed)
	}
}

func TestRunExecutesEachStepOnce(t *testing.T) {
	var calls atomic.Int32
	counted := func(name string, reads, writes []workflow.Field, u workflow.Update) workflow.Step {
		return workflow.NewStep(name, reads, writes,
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				calls.Add(1)
				return u, nil
			})
	}

	// Diamond: top fans out to two middles, both converge on bottom.
	steps := []workflow.Step{
		counted("top", nil, []workflow.Field{workflow.FieldSections},
			workflow.Update{Sections: &expense.Sections{Header: "h"}}),
		counted("left", []workflow.Field{workflow.FieldSections}, []workflow.Field{workflow.FieldTotalOK},
			boolUpdate(workflow.FieldTotalOK, true)),
		counted("right", []workflow.Field{workflow.FieldSections}, []workflow.Field{workflow.FieldTicketExists},
			boolUpdate(workflow.FieldTicketExists, false)),
		counted("bottom", []workflow.Field{workflow.FieldTotalOK, workflow.FieldTicketExists}, nil,
			workflow.Update{}),
	}

	graph, err := workflow.NewGraph(steps, nil)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}

	if _, _, err := graph.Run(context.Background(), workflow.State{}, discard()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("step invocations = %d, want 4", got)
	}
}

func TestRunHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps := []workflow.Step{
		workflow.NewStep("only", nil, []workflow.Field{workflow.FieldTotalOK},
			func(ctx context.Context, s workflow.State) (workflow.Update, error) {
				t.Error("step ran under a canceled context")
				return workflow.Update{}, nil
			}),
	}

	graph, err := workflow.NewGraph(steps, nil)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}

	_, report, err := graph.Run(ctx, workflow.State{}, discard())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if res, _ := report.Result("only"); res.Status != workflow.StatusCanceled {
		t.Errorf("Result(only).Status = %s, want %s", res.Status, workflow.StatusCanceled)
	}
}
