package prompts

import "slices"

// Stage identifies an extraction stage with its own instructions and
// response specification.
type Stage string

// Valid extraction stages.
const (
	StageHeader   Stage = "header"
	StageInvoices Stage = "invoices"
	StageSummary  Stage = "summary"
	StageRate     Stage = "rate"
)

var stages = []Stage{
	StageHeader,
	StageInvoices,
	StageSummary,
	StageRate,
}

// Stages returns the list of valid extraction stages.
func Stages() []Stage {
	return stages
}

// ParseStage validates a string as a known extraction stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
