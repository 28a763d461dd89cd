package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Status records how a step ended.
type Status string

const (
	// StatusCompleted marks a step that ran and merged its update.
	StatusCompleted Status = "completed"
	// StatusNotReady marks a step skipped because one of its read fields
	// held no value. The step's own fields stay absent; its dependents
	// are still released.
	StatusNotReady Status = "not_ready"
	// StatusFailed marks a step whose Run or merge returned an error.
	StatusFailed Status = "failed"
	// StatusCanceled marks a step that never ran because the run was
	// already aborted.
	StatusCanceled Status = "canceled"
)

// StepResult is the outcome of one step in a run.
type StepResult struct {
	Step     string
	Status   Status
	Duration time.Duration
	Err      error
}

// Report lists step outcomes in pipeline order.
type Report struct {
	Steps []StepResult
}

// Result returns the outcome of the named step.
func (r *Report) Result(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Run executes the graph against the initial state and returns the final
// state and a per-step report. Steps whose dependencies have resolved run
// concurrently on a bounded worker pool. A step whose read fields are not
// all present is skipped as not ready; its dependents still unlock, so one
// degraded extraction narrows the run instead of aborting it. A step error
// cancels the remaining steps and surfaces as ErrStepFailed.
func (g *Graph) Run(ctx context.Context, initial State, logger *slog.Logger) (State, *Report, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type node struct {
		step       Step
		pending    atomic.Int32
		dependents []*node
	}

	nodes := make(map[string]*node, len(g.steps))
	for _, step := range g.steps {
		nodes[step.Name()] = &node{step: step}
	}
	for name, ds := range g.deps {
		n := nodes[name]
		n.pending.Store(int32(len(ds)))
		for _, d := range ds {
			nodes[d].dependents = append(nodes[d].dependents, n)
		}
	}

	ready := make(chan *node, len(g.steps))
	for _, step := range g.steps {
		if n := nodes[step.Name()]; n.pending.Load() == 0 {
			ready <- n
		}
	}

	var (
		mu      sync.Mutex
		state   = initial
		results = make(map[string]StepResult, len(g.steps))
		failure error
	)

	fail := func(err error) {
		mu.Lock()
		if failure == nil {
			failure = err
		}
		mu.Unlock()
		cancel()
	}

	var wg sync.WaitGroup
	wg.Add(len(g.steps))

	for range workerCount(len(g.steps)) {
		go func() {
			for n := range ready {
				name := n.step.Name()
				res := StepResult{Step: name, Status: StatusCanceled}

				if runCtx.Err() == nil {
					mu.Lock()
					snapshot := state
					mu.Unlock()

					if absent := missingFields(snapshot, n.step.Reads()); len(absent) > 0 {
						res.Status = StatusNotReady
						logger.InfoContext(runCtx, "skipping step",
							"step", name,
							"missing", absent)
					} else {
						started := time.Now()
						update, err := n.step.Run(runCtx, snapshot)
						res.Duration = time.Since(started)

						switch {
						case err != nil:
							res.Status = StatusFailed
							res.Err = err
							logger.ErrorContext(runCtx, "step failed",
								"step", name,
								"error", err)
							fail(fmt.Errorf("%w: %s: %w", ErrStepFailed, name, err))
						case mergeUpdate(&mu, &state, n.step, update, &res):
							logger.DebugContext(runCtx, "step completed",
								"step", name,
								"duration", res.Duration)
						default:
							logger.ErrorContext(runCtx, "step failed",
								"step", name,
								"error", res.Err)
							fail(fmt.Errorf("%w: %s: %w", ErrStepFailed, name, res.Err))
						}
					}
				}

				mu.Lock()
				results[name] = res
				mu.Unlock()

				// Dependents unlock no matter how this step ended, so the
				// run always drains and skipped branches report not_ready
				// rather than hanging.
				for _, dep := range n.dependents {
					if dep.pending.Add(-1) == 0 {
						ready <- dep
					}
				}
				wg.Done()
			}
		}()
	}

	wg.Wait()
	close(ready)

	report := &Report{Steps: make([]StepResult, 0, len(g.steps))}
	for _, step := range g.steps {
		report.Steps = append(report.Steps, results[step.Name()])
	}

	if failure != nil {
		return state, report, failure
	}
	if err := ctx.Err(); err != nil {
		return state, report, err
	}
	return state, report, nil
}

// mergeUpdate validates the update against the step's declared writes and
// merges it under the state lock. On failure it records the error in res
// and reports false.
func mergeUpdate(mu *sync.Mutex, state *State, step Step, update Update, res *StepResult) bool {
	writes := step.Writes()
	for _, f := range update.fields() {
		if !slices.Contains(writes, f) {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("%w: %s wrote %s", ErrUndeclaredWrite, step.Name(), f)
			return false
		}
	}

	mu.Lock()
	err := state.merge(update)
	mu.Unlock()
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return false
	}

	res.Status = StatusCompleted
	return true
}

func missingFields(state State, reads []Field) []Field {
	var absent []Field
	for _, f := range reads {
		if !state.Has(f) {
			absent = append(absent, f)
		}
	}
	return absent
}

func workerCount(steps int) int {
	return max(min(runtime.NumCPU(), steps), 1)
}
