package shared

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAnswer_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    Answer
		expected string
	}{
		{
			name:     "Should marshal rating answer as bare number",
			input:    RatingAnswer{Value: 4},
			expected: `4`,
		},
		{
			name:     "Should marshal choice answer as bare string",
			input:    ChoiceAnswer{Value: "sleep"},
			expected: `"sleep"`,
		},
		{
			name:     "Should marshal true answer as bare bool",
			input:    TrueFalseAnswer{Value: true},
			expected: `true`,
		},
		{
			name:     "Should marshal false answer as bare bool",
			input:    TrueFalseAnswer{Value: false},
			expected: `false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := json.Marshal(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("json.Marshal(%v) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestAnswer_Kind(t *testing.T) {
	tests := []struct {
		name     string
		input    Answer
		expected Kind
		text     string
	}{
		{name: "rating", input: RatingAnswer{Value: 3}, expected: KindRating, text: "3"},
		{name: "multiple choice", input: ChoiceAnswer{Value: "maybe"}, expected: KindMultipleChoice, text: "maybe"},
		{name: "true false", input: TrueFalseAnswer{Value: true}, expected: KindTrueFalse, text: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.input.Kind() != tt.expected {
				t.Errorf("Kind() = %v, want %v", tt.input.Kind(), tt.expected)
			}
			if tt.input.String() != tt.text {
				t.Errorf("String() = %q, want %q", tt.input.String(), tt.text)
			}
		})
	}
}

func TestSubmissionPayload_IsImmutable(t *testing.T) {
	answers := AnswerSet{
		"recovery": RatingAnswer{Value: 4},
		"caffeine": TrueFalseAnswer{Value: false},
	}
	submittedAt := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	payload := NewSubmissionPayload(answers, "user@example.com", submittedAt)

	// Mutating the source map must not leak into the payload
	answers["insights"] = RatingAnswer{Value: 5}
	if len(payload.Answers()) != 2 {
		t.Fatalf("Expected 2 answers in payload, got %d", len(payload.Answers()))
	}

	// Mutating the returned copy must not leak either
	copied := payload.Answers()
	delete(copied, "recovery")
	if _, ok := payload.Answers()["recovery"]; !ok {
		t.Errorf("Expected payload to still contain recovery answer")
	}

	if payload.Email() != "user@example.com" {
		t.Errorf("Email() = %q, want %q", payload.Email(), "user@example.com")
	}
	if !payload.SubmittedAt().Equal(submittedAt) {
		t.Errorf("SubmittedAt() = %v, want %v", payload.SubmittedAt(), submittedAt)
	}
}

func TestSubmissionPayload_MarshalJSON(t *testing.T) {
	payload := NewSubmissionPayload(AnswerSet{
		"recovery": RatingAnswer{Value: 4},
		"training": ChoiceAnswer{Value: "sleep"},
	}, "user@example.com", time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded struct {
		ID      string                     `json:"id"`
		Answers map[string]json.RawMessage `json:"answers"`
		Email   string                     `json:"email"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if decoded.ID != payload.ID().String() {
		t.Errorf("id = %q, want %q", decoded.ID, payload.ID().String())
	}
	if string(decoded.Answers["recovery"]) != `4` {
		t.Errorf("answers.recovery = %s, want 4", decoded.Answers["recovery"])
	}
	if string(decoded.Answers["training"]) != `"sleep"` {
		t.Errorf("answers.training = %s, want \"sleep\"", decoded.Answers["training"])
	}
	if decoded.Email != "user@example.com" {
		t.Errorf("email = %q, want %q", decoded.Email, "user@example.com")
	}
}
