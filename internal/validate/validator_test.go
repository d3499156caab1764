package validate

import (
	"testing"
)

type staticList map[string]bool

func (s staticList) Contains(name string) bool { return s[name] }

func TestCheck_RejectionRules(t *testing.T) {
	v := NewEntityValidator(nil)

	tests := []struct {
		name string
		rule string
	}{
		{"A", "too_short"},
		{"123", "no_alpha"},
		{"Wiz", "short_non_acronym"},
		{"acme", "lowercase_start"},
		{"These", "stopword"},
		{"Funding", "financing_noun"},
		{"Series B", "funding_stage"},
		{"Researchers", "role_group"},
		{"India", "place_or_nationality"},
		{"Indian", "place_or_nationality"},
		{"Silicon Valley", "place_or_nationality"},
		{"Startup Acme", "generic_prefix"},
		{"Payments Startup", "generic_suffix"},
		{"Mining Company", "company_suffix"},
		{"Acme Funding", "financing_suffix"},
		{"Fresh Capital", "financing_suffix"},
		{"Finnish Agileday", "nationality_prefix"},
		{"Our Portfolio", "possessive_phrase"},
		{"How Stripe", "connective_start"},
		{"Former Google", "former_prefix"},
		{"Elon Musk", "famous_person"},
		{"Indians", "nationality_plural"},
		{"Donald Trump", "political_figure"},
		{"Zepto Emerges", "headline_verb_suffix"},
		{"Fintech", "industry_descriptor"},
		{"2026 Predictions Roundup", "content_format"},
		{"Alpha Beta Gamma Delta Epsilon Zeta Theta", "too_many_words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, rule := v.Check(tt.name)
			if ok {
				t.Fatalf("Expected %q to be rejected", tt.name)
			}
			if rule != tt.rule {
				t.Errorf("Expected rule %s for %q, got %s", tt.rule, tt.name, rule)
			}
		})
	}
}

func TestCheck_Accepts(t *testing.T) {
	v := NewEntityValidator(nil)

	accepted := []string{
		"Flipkart",
		"Barrick Gold",
		"IBM",
		"Sequoia Capital",
		"The Coca-Cola Company",
		"Coca-Cola Bottling Company",
		"Reliance Industries",
		"OpenAI",
		"H&M",
		"  Stripe  ",
	}

	for _, name := range accepted {
		t.Run(name, func(t *testing.T) {
			ok, rule := v.Check(name)
			if !ok {
				t.Errorf("Expected %q to be accepted, rejected by %s", name, rule)
			}
			if rule != "ok" {
				t.Errorf("Expected rule ok, got %s", rule)
			}
		})
	}
}

func TestCheck_OntologyOverride(t *testing.T) {
	v := NewEntityValidator(staticList{"Wiz": true, "Zepto Emerges": true})

	tests := []struct {
		name     string
		expected bool
		rule     string
	}{
		{"Wiz", true, "ontology_override"},
		{"Zepto Emerges", true, "ontology_override"},
		{"Flipkart", true, "ok"},
		{"Indian", false, "place_or_nationality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, rule := v.Check(tt.name)
			if ok != tt.expected || rule != tt.rule {
				t.Errorf("Expected (%v, %s), got (%v, %s)", tt.expected, tt.rule, ok, rule)
			}
		})
	}

	if !v.IsKnown("Wiz") {
		t.Error("Expected Wiz to be known")
	}
	if v.IsKnown("Flipkart") {
		t.Error("Expected Flipkart to be unknown")
	}
}

func TestIsValidEntityName_Deterministic(t *testing.T) {
	v := NewEntityValidator(nil)
	names := []string{"Flipkart", "Indian", "Acme Funding", "Wiz", ""}

	for _, name := range names {
		first := v.IsValidEntityName(name)
		for i := 0; i < 5; i++ {
			if v.IsValidEntityName(name) != first {
				t.Fatalf("Verdict for %q changed between calls", name)
			}
		}
		if first != IsValidEntityName(name) {
			t.Errorf("Package-level verdict for %q differs without ontology", name)
		}
	}
}

func TestNilValidator_IsKnown(t *testing.T) {
	var v *EntityValidator
	if v.IsKnown("Flipkart") {
		t.Error("Expected nil validator to know nothing")
	}
}
