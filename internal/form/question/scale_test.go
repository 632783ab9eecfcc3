package question

import (
	"encoding/json"
	"errors"
	"testing"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/shared"
)

func newTestRating(t *testing.T, minVal, maxVal int) Rating {
	t.Helper()

	rating, err := NewRating(Question{
		ID:     "recovery",
		Type:   TypeRating,
		Prompt: "How well-rested do you feel today?",
		Scale: &ScaleOption{
			MinVal:        minVal,
			MaxVal:        maxVal,
			MinValueLabel: "Exhausted",
			MaxValueLabel: "Fully Rested",
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return rating
}

func TestNewRating(t *testing.T) {
	tests := []struct {
		name        string
		scale       *ScaleOption
		options     []ChoiceOption
		shouldError bool
	}{
		{
			name:  "Should create rating with ascending bounds",
			scale: &ScaleOption{MinVal: 1, MaxVal: 5},
		},
		{
			name:  "Should allow equal bounds",
			scale: &ScaleOption{MinVal: 3, MaxVal: 3},
		},
		{
			name:        "Should reject min greater than max",
			scale:       &ScaleOption{MinVal: 5, MaxVal: 1},
			shouldError: true,
		},
		{
			name:        "Should reject missing scale",
			scale:       nil,
			shouldError: true,
		},
		{
			name:        "Should reject options on a rating question",
			scale:       &ScaleOption{MinVal: 1, MaxVal: 5},
			options:     []ChoiceOption{{Label: "Yes", Value: "yes"}},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRating(Question{ID: "q", Type: TypeRating, Prompt: "p", Scale: tt.scale, Options: tt.options})

			if tt.shouldError {
				if err == nil {
					t.Fatalf("Expected error but got nil")
				}
				if !errors.Is(err, internal.ErrQuestionnaireInvalid) {
					t.Errorf("Expected error to wrap ErrQuestionnaireInvalid, got %v", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestRating_DecodeRequest(t *testing.T) {
	rating := newTestRating(t, 1, 5)

	tests := []struct {
		name        string
		rawValue    string
		shouldError bool
		expected    int
	}{
		{name: "Should decode valid rating within range", rawValue: `3`, expected: 3},
		{name: "Should decode minimum value", rawValue: `1`, expected: 1},
		{name: "Should decode maximum value", rawValue: `5`, expected: 5},
		{name: "Should return error for value below minimum", rawValue: `0`, shouldError: true},
		{name: "Should return error for value above maximum", rawValue: `6`, shouldError: true},
		{name: "Should return error for negative value", rawValue: `-1`, shouldError: true},
		{name: "Should return error for string value", rawValue: `"3"`, shouldError: true},
		{name: "Should return error for float value", rawValue: `3.5`, shouldError: true},
		{name: "Should return error for boolean value", rawValue: `true`, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := rating.DecodeRequest(json.RawMessage(tt.rawValue))

			if tt.shouldError {
				if err == nil {
					t.Fatalf("Expected error but got nil")
				}
				if !errors.Is(err, internal.ErrValidationFailed) {
					t.Errorf("Expected error to wrap ErrValidationFailed, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			answer, ok := result.(shared.RatingAnswer)
			if !ok {
				t.Fatalf("Expected shared.RatingAnswer, got %T", result)
			}
			if answer.Value != tt.expected {
				t.Errorf("Expected value %d, got %d", tt.expected, answer.Value)
			}
		})
	}
}

func TestRating_ParseValue(t *testing.T) {
	rating := newTestRating(t, 1, 5)

	tests := []struct {
		name        string
		text        string
		shouldError bool
		display     string
	}{
		{name: "Should parse plain number", text: "2", display: "2"},
		{name: "Should parse number with surrounding spaces", text: " 5 ", display: "5"},
		{name: "Should reject out of range number", text: "9", shouldError: true},
		{name: "Should reject non numeric text", text: "five", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, err := rating.ParseValue(tt.text)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			display, err := rating.DisplayValue(answer)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if display != tt.display {
				t.Errorf("Expected display %q, got %q", tt.display, display)
			}
		})
	}
}
