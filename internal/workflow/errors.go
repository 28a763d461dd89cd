package workflow

import "errors"

var (
	// ErrDuplicateStep indicates two steps share a name.
	ErrDuplicateStep = errors.New("duplicate step name")
	// ErrUnknownField indicates a step declares a field outside the state schema.
	ErrUnknownField = errors.New("unknown state field")
	// ErrDuplicateWriter indicates two steps declare the same write field.
	ErrDuplicateWriter = errors.New("field has more than one writer")
	// ErrUnwrittenRead indicates a step reads a field no step writes and no
	// seed provides.
	ErrUnwrittenRead = errors.New("field is read but never written")
	// ErrCycle indicates the derived dependency graph is not acyclic.
	ErrCycle = errors.New("dependency cycle")
	// ErrUndeclaredWrite indicates a step produced a field outside its
	// declared write set.
	ErrUndeclaredWrite = errors.New("update outside declared writes")
	// ErrFieldCollision indicates a merge targeted a field that already
	// holds a value.
	ErrFieldCollision = errors.New("field already written")
	// ErrStepFailed wraps the first step error that aborted a run.
	ErrStepFailed = errors.New("step failed")
	// ErrMissingPDFPath indicates a review was started without a report path.
	ErrMissingPDFPath = errors.New("pdf path required")
)
