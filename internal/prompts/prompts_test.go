package prompts_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mwhitfield/bursar/internal/prompts"
)

func TestStages(t *testing.T) {
	stages := prompts.Stages()

	want := []prompts.Stage{
		prompts.StageHeader,
		prompts.StageInvoices,
		prompts.StageSummary,
		prompts.StageRate,
	}
	if len(stages) != len(want) {
		t.Fatalf("len(Stages()) = %d, want %d", len(stages), len(want))
	}
	for i, s := range stages {
		if s != want[i] {
			t.Errorf("Stages()[%d] = %q, want %q", i, s, want[i])
		}
	}
}

func TestParseStage(t *testing.T) {
	t.Run("valid stages", func(t *testing.T) {
		for _, stage := range prompts.Stages() {
			got, err := prompts.ParseStage(string(stage))
			if err != nil {
				t.Errorf("ParseStage(%q) error: %v", stage, err)
			}
			if got != stage {
				t.Errorf("ParseStage(%q) = %q", stage, got)
			}
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		if _, err := prompts.ParseStage("banana"); !errors.Is(err, prompts.ErrInvalidStage) {
			t.Errorf("ParseStage(banana) error = %v, want ErrInvalidStage", err)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		if _, err := prompts.ParseStage(""); !errors.Is(err, prompts.ErrInvalidStage) {
			t.Errorf("ParseStage('') error = %v, want ErrInvalidStage", err)
		}
	})
}

func TestInstructions(t *testing.T) {
	for _, stage := range prompts.Stages() {
		text, err := prompts.Instructions(stage)
		if err != nil {
			t.Errorf("Instructions(%q) error: %v", stage, err)
		}
		if text == "" {
			t.Errorf("Instructions(%q) is empty", stage)
		}
	}

	if _, err := prompts.Instructions("banana"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("Instructions(banana) error = %v, want ErrInvalidStage", err)
	}
}

func TestSpec(t *testing.T) {
	for _, stage := range prompts.Stages() {
		text, err := prompts.Spec(stage)
		if err != nil {
			t.Errorf("Spec(%q) error: %v", stage, err)
		}
		if !strings.Contains(text, "JSON") {
			t.Errorf("Spec(%q) should describe a JSON response", stage)
		}
	}

	if _, err := prompts.Spec("banana"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("Spec(banana) error = %v, want ErrInvalidStage", err)
	}
}

func TestCompose(t *testing.T) {
	payload := "Destination: Microsoft HQ Ticket ID: 992211"

	prompt, err := prompts.Compose(prompts.StageHeader, payload)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	instructions, _ := prompts.Instructions(prompts.StageHeader)
	spec, _ := prompts.Spec(prompts.StageHeader)

	instrIdx := strings.Index(prompt, instructions)
	specIdx := strings.Index(prompt, spec)
	labelIdx := strings.Index(prompt, "HEADER TEXT:")
	payloadIdx := strings.Index(prompt, payload)

	if instrIdx < 0 {
		t.Error("prompt is missing the instructions")
	}
	if specIdx < 0 {
		t.Error("prompt is missing the response spec")
	}
	if labelIdx < 0 {
		t.Error("prompt is missing the payload label")
	}
	if payloadIdx < 0 {
		t.Error("prompt is missing the payload")
	}
	if !(instrIdx < specIdx && specIdx < labelIdx && labelIdx < payloadIdx) {
		t.Errorf("prompt sections out of order: instructions=%d spec=%d label=%d payload=%d",
			instrIdx, specIdx, labelIdx, payloadIdx)
	}
}

func TestComposePayloadLabels(t *testing.T) {
	tests := []struct {
		stage prompts.Stage
		label string
	}{
		{prompts.StageHeader, "HEADER TEXT:"},
		{prompts.StageInvoices, "INVOICES TEXT:"},
		{prompts.StageSummary, "SUMMARY TEXT:"},
		{prompts.StageRate, "INPUT:"},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			prompt, err := prompts.Compose(tt.stage, "payload")
			if err != nil {
				t.Fatalf("Compose error: %v", err)
			}
			if !strings.Contains(prompt, tt.label) {
				t.Errorf("prompt for %s is missing label %q", tt.stage, tt.label)
			}
		})
	}
}

func TestComposeInvalidStage(t *testing.T) {
	if _, err := prompts.Compose("banana", "payload"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("Compose(banana) error = %v, want ErrInvalidStage", err)
	}
}
