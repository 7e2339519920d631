package models

import "testing"

func TestQuestionHasTag(t *testing.T) {
	q := &Question{Tags: []string{"Loan", "getting started"}}

	tests := []struct {
		tag  string
		want bool
	}{
		{tag: "loan", want: true},
		{tag: "LOAN", want: true},
		{tag: "getting started", want: true},
		{tag: "getting", want: false},
		{tag: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := q.HasTag(tt.tag); got != tt.want {
				t.Errorf("HasTag(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

// TestQuestionInputPublished verifies that rows without an explicit flag
// default to published.
func TestQuestionInputPublished(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name string
		flag *bool
		want bool
	}{
		{name: "unset", flag: nil, want: true},
		{name: "true", flag: &yes, want: true},
		{name: "false", flag: &no, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &QuestionInput{IsPublished: tt.flag}
			if got := in.Published(); got != tt.want {
				t.Errorf("Published() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpsertResultTotal(t *testing.T) {
	r := UpsertResult{Inserted: 2, Updated: 3}
	if r.Total() != 5 {
		t.Errorf("Total() = %d, want 5", r.Total())
	}
}
