package prompts

import (
	"fmt"
	"strings"
)

var payloadLabels = map[Stage]string{
	StageHeader:   "HEADER TEXT",
	StageInvoices: "INVOICES TEXT",
	StageSummary:  "SUMMARY TEXT",
	StageRate:     "INPUT",
}

// Compose builds the full prompt for an extraction stage: instructions,
// response specification, and the payload text under a stage-specific label.
func Compose(stage Stage, payload string) (string, error) {
	instructions, err := Instructions(stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\n")
	sb.WriteString(payloadLabels[stage])
	sb.WriteString(":\n\n")
	sb.WriteString(payload)

	return sb.String(), nil
}
