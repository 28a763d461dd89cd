package workflow

import (
	"fmt"
	"slices"
)

// Graph is a validated set of steps with dependencies derived from their
// declared reads and writes: a step depends on the writer of each field it
// reads. Construction proves the graph is runnable, so Run never has to
// diagnose wiring mistakes.
type Graph struct {
	steps []Step
	// deps maps a step name to the names of the steps it depends on.
	deps map[string][]string
}

// NewGraph derives and validates the dependency graph. Seeds name the
// fields the initial state provides; reads of seed fields resolve without
// a writer. Construction fails on duplicate step names, undeclared fields,
// two writers for one field, reads nothing satisfies, and cycles.
func NewGraph(steps []Step, seeds []Field) (*Graph, error) {
	names := make(map[string]bool, len(steps))
	writers := make(map[Field]string)

	for _, step := range steps {
		name := step.Name()
		if names[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStep, name)
		}
		names[name] = true

		for _, f := range step.Reads() {
			if !KnownField(f) {
				return nil, fmt.Errorf("%w: %s reads %s", ErrUnknownField, name, f)
			}
		}
		for _, f := range step.Writes() {
			if !KnownField(f) {
				return nil, fmt.Errorf("%w: %s writes %s", ErrUnknownField, name, f)
			}
			if prev, ok := writers[f]; ok {
				return nil, fmt.Errorf("%w: %s written by %s and %s", ErrDuplicateWriter, f, prev, name)
			}
			writers[f] = name
		}
	}

	for _, f := range seeds {
		if !KnownField(f) {
			return nil, fmt.Errorf("%w: seed %s", ErrUnknownField, f)
		}
	}

	deps := make(map[string][]string, len(steps))
	for _, step := range steps {
		name := step.Name()
		deps[name] = nil
		for _, f := range step.Reads() {
			writer, ok := writers[f]
			if !ok {
				if slices.Contains(seeds, f) {
					continue
				}
				return nil, fmt.Errorf("%w: %s reads %s", ErrUnwrittenRead, name, f)
			}
			if !slices.Contains(deps[name], writer) {
				deps[name] = append(deps[name], writer)
			}
		}
	}

	g := &Graph{steps: steps, deps: deps}
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// Steps returns the steps in pipeline order.
func (g *Graph) Steps() []Step {
	return slices.Clone(g.steps)
}

// Dependencies returns the sorted names of the steps the named step
// depends on.
func (g *Graph) Dependencies(name string) []string {
	ds := slices.Clone(g.deps[name])
	slices.Sort(ds)
	return ds
}

func (g *Graph) checkAcyclic() error {
	pending := make(map[string]int, len(g.steps))
	dependents := make(map[string][]string, len(g.steps))
	for name, ds := range g.deps {
		pending[name] = len(ds)
		for _, d := range ds {
			dependents[d] = append(dependents[d], name)
		}
	}

	var queue []string
	for name, n := range pending {
		if n == 0 {
			queue = append(queue, name)
		}
	}

	resolved := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		resolved++
		for _, dep := range dependents[name] {
			pending[dep]--
			if pending[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if resolved != len(g.steps) {
		var stuck []string
		for name, n := range pending {
			if n > 0 {
				stuck = append(stuck, name)
			}
		}
		slices.Sort(stuck)
		return fmt.Errorf("%w: %v", ErrCycle, stuck)
	}
	return nil
}
