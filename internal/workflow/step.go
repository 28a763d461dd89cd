package workflow

import "context"

// Step is one unit of review work. A step declares the state fields it
// reads and the fields it writes; the graph derives execution order from
// those declarations alone. Run receives a snapshot of the state and
// returns the fields it produced. A step runs only once all of its read
// fields hold values; the scheduler skips it otherwise.
type Step interface {
	Name() string
	Reads() []Field
	Writes() []Field
	Run(ctx context.Context, state State) (Update, error)
}

type funcStep struct {
	name   string
	reads  []Field
	writes []Field
	fn     func(ctx context.Context, state State) (Update, error)
}

// NewStep builds a Step from a function and its declared field sets.
func NewStep(name string, reads, writes []Field, fn func(ctx context.Context, state State) (Update, error)) Step {
	return &funcStep{
		name:   name,
		reads:  reads,
		writes: writes,
		fn:     fn,
	}
}

func (s *funcStep) Name() string    { return s.name }
func (s *funcStep) Reads() []Field  { return s.reads }
func (s *funcStep) Writes() []Field { return s.writes }

func (s *funcStep) Run(ctx context.Context, state State) (Update, error) {
	return s.fn(ctx, state)
}
