package extract

import (
	"reflect"
	"testing"
)

func chunkTexts(chunks []Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Text)
	}
	return out
}

func TestTitleChunks(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"General Catalyst merges with Venture Highway in record-breaking deal", []string{"General Catalyst", "Venture Highway"}},
		{"Bank of America backs Zepto", []string{"Bank of America", "Zepto"}},
		{"The Walt Disney Company acquires Hulu", []string{"The Walt Disney Company", "Hulu"}},
		{"U.S. FTC sues Amazon", []string{"U.S. FTC", "Amazon"}},
		{"Alpha Beta Gamma Delta Epsilon Zeta", []string{"Alpha Beta Gamma Delta Epsilon", "Zeta"}},
		{"Infosys / Microsoft deal", []string{"Infosys", "Microsoft"}},
		{"3M buys stake in 23andMe", []string{"3M", "23andMe"}},
		{"raises funding from investors", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := chunkTexts(TitleChunks(tt.text))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTitleChunks_Possessive(t *testing.T) {
	chunks := TitleChunks("Zepto's rival Blinkit")
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "Zepto" || !chunks[0].Possessive {
		t.Errorf("Expected possessive chunk Zepto, got %+v", chunks[0])
	}
	if chunks[1].Possessive {
		t.Errorf("Expected Blinkit to be non-possessive")
	}
	if chunks[1].Start != len("Zepto's rival ") {
		t.Errorf("Expected Blinkit at offset %d, got %d", len("Zepto's rival "), chunks[1].Start)
	}
}

func TestCleanCandidate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  - Flipkart's, ", "Flipkart"},
		{"Acme Inc.", "Acme Inc"},
		{"U.S.", "U.S."},
		{"\"Zepto\"", "Zepto"},
		{": Peak XV |", "Peak XV"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCandidate(tt.raw); got != tt.want {
			t.Errorf("CleanCandidate(%q): expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}

func TestFirstAndLastChunk(t *testing.T) {
	rejectIndian := func(name string) bool { return name != "Indian" }

	name, ok := FirstChunk(" Indian e-commerce giant Flipkart", rejectIndian)
	if !ok || name != "Flipkart" {
		t.Errorf("Expected first accepted chunk Flipkart, got %q (%v)", name, ok)
	}

	// Nothing admitted: positional chunk comes back for the caller to report
	name, ok = FirstChunk(" Indian e-commerce giant", rejectIndian)
	if !ok || name != "Indian" {
		t.Errorf("Expected positional fallback Indian, got %q (%v)", name, ok)
	}

	name, ok = LastChunk("Tech giant Google and Microsoft ", nil)
	if !ok || name != "Microsoft" {
		t.Errorf("Expected last chunk Microsoft, got %q (%v)", name, ok)
	}

	if _, ok := LastChunk("raises funding", nil); ok {
		t.Error("Expected no chunk in lowercase text")
	}
}
