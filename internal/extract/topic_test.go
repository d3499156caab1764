package extract

import "testing"

func TestIsTopicHeadline(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"2026 Predictions Roundup", true},
		{"Dispatch from Davos: what founders said", true},
		{"Top 10 startups to watch", true},
		{"Fintech weekly digest", true},
		{"Zepto raises $200M from Peak XV", false},
		{"Roundtable with climate founders", false},
		{"Laptop maker tops sales charts", false},
	}

	for _, tt := range tests {
		if got := IsTopicHeadline(tt.title); got != tt.want {
			t.Errorf("IsTopicHeadline(%q): expected %v, got %v", tt.title, tt.want, got)
		}
	}
}
