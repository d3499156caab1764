package extract

import (
	"reflect"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		desc      string
		raw       string
		wantTitle string
		wantNotes []string
	}{
		{
			desc:      "curly quotes and non-breaking space",
			raw:       "  Flipkart\u00a0 raises  \u2018big\u2019 round ",
			wantTitle: "Flipkart raises 'big' round",
		},
		{
			desc:      "backer prefix",
			raw:       "Sequoia Capital-backed Zepto raises $200M",
			wantTitle: "Zepto raises $200M",
			wantNotes: []string{"stripped_backed_prefix:Sequoia Capital"},
		},
		{
			desc:      "founder prefix",
			raw:       "Founder Kunal Shah: CRED raises funding",
			wantTitle: "CRED raises funding",
			wantNotes: []string{"stripped_founder_prefix:Founder Kunal Shah"},
		},
		{
			desc:      "possessive person prefix",
			raw:       "Elon Musk\u2019s xAI raises $6B",
			wantTitle: "xAI raises $6B",
			wantNotes: []string{"stripped_possessive_prefix:Elon Musk"},
		},
		{
			desc:      "single word possessive is kept",
			raw:       "Zepto's rival Blinkit raises funds",
			wantTitle: "Zepto's rival Blinkit raises funds",
		},
		{
			desc:      "empty",
			raw:       "   ",
			wantTitle: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			title, notes := NormalizeTitle(tt.raw)
			if title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, title)
			}
			if !reflect.DeepEqual(notes, tt.wantNotes) {
				t.Errorf("Expected notes %v, got %v", tt.wantNotes, notes)
			}
		})
	}
}

func TestNormalizeTitle_Idempotent(t *testing.T) {
	titles := []string{
		"Sequoia Capital-backed Zepto raises $200M",
		"General Catalyst merges with Venture Highway in record-breaking deal",
		"\u201cQuoted\u201d  headline",
	}
	for _, raw := range titles {
		once, _ := NormalizeTitle(raw)
		twice, notes := NormalizeTitle(once)
		if once != twice {
			t.Errorf("Expected normalization to be stable, got %q then %q", once, twice)
		}
		if len(notes) != 0 {
			t.Errorf("Expected no notes on second pass, got %v", notes)
		}
	}
}
