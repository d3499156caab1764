package extract

import (
	"testing"

	"github.com/ppiankov/capevent/internal/model"
)

func TestParseAmount(t *testing.T) {
	fx := map[string]float64{"USD": 1.0, "INR": 0.012, "EUR": 1.1}

	tests := []struct {
		title     string
		currency  string
		value     float64
		magnitude model.Magnitude
		usd       float64 // 0 means no conversion expected
	}{
		{"Google invests $350M in Indian e-commerce giant Flipkart", "USD", 350, model.MagnitudeM, 350_000_000},
		{"Zepto raises ₹500 million in fresh funding", "INR", 500, model.MagnitudeM, 6_000_000},
		{"Mistral secures €1.5bn funding", "EUR", 1.5, model.MagnitudeB, 1_650_000_000},
		{"Startup raises 20 million in seed round", "USD", 20, model.MagnitudeM, 20_000_000},
		{"Acme closes $750K pre-seed", "USD", 750, model.MagnitudeK, 750_000},
		{"Revolut raises £100M", "GBP", 100, model.MagnitudeM, 0},
		{"Zepto raises $200", "USD", 200, model.MagnitudeM, 200_000_000},
		{"Stripe valued at US$1,200 million", "USD", 1200, model.MagnitudeM, 1_200_000_000},
		{"Acme funded with $5M from Sequoia", "USD", 5, model.MagnitudeM, 5_000_000},
		{"Byju's investments of $250M under scrutiny", "USD", 250, model.MagnitudeM, 250_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			a := ParseAmount(tt.title, fx)
			if a == nil {
				t.Fatal("Expected amount, got nil")
			}
			if a.Currency != tt.currency {
				t.Errorf("Expected currency %s, got %s", tt.currency, a.Currency)
			}
			if a.Value != tt.value {
				t.Errorf("Expected value %v, got %v", tt.value, a.Value)
			}
			if a.Magnitude != tt.magnitude {
				t.Errorf("Expected magnitude %s, got %s", tt.magnitude, a.Magnitude)
			}
			switch {
			case tt.usd == 0 && a.USDValue != nil:
				t.Errorf("Expected no USD value, got %v", *a.USDValue)
			case tt.usd != 0 && a.USDValue == nil:
				t.Errorf("Expected USD value %v, got nil", tt.usd)
			case tt.usd != 0 && *a.USDValue != tt.usd:
				t.Errorf("Expected USD value %v, got %v", tt.usd, *a.USDValue)
			}
		})
	}
}

func TestParseAmount_Gate(t *testing.T) {
	titles := []string{
		"Apple sells 10M iPhones",
		"Zepto hires 500 engineers",
		"Cloud security startup Wiz hits 100M users",
		"Valuable lesson: Duolingo reaches 100M users",
		"Fundamentals: Threads crosses 150M users",
		"Closer look: TikTok Shop hits 10M sellers",
		"Dealership chain sells 2M cars",
		"",
	}
	for _, title := range titles {
		if a := ParseAmount(title, nil); a != nil {
			t.Errorf("Expected no amount for %q, got %+v", title, a)
		}
	}
}

func TestParseAmount_Raw(t *testing.T) {
	a := ParseAmount("Google invests $350M in Flipkart", nil)
	if a == nil {
		t.Fatal("Expected amount")
	}
	if a.Raw != "$350M" {
		t.Errorf("Expected raw $350M, got %q", a.Raw)
	}
	if a.USDValue != nil {
		t.Error("Expected no USD value without rates")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,200", 1200},
		{"1,200,000", 1200000},
		{"1.5", 1.5},
		{"1,5", 1.5},
		{"350", 350},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		if !ok || got != tt.want {
			t.Errorf("parseNumber(%q): expected %v, got %v (%v)", tt.in, tt.want, got, ok)
		}
	}
}

func TestParseRound(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Zepto raises Series B funding", "Series B"},
		{"Acme closes $750K pre-seed", "Pre-Seed"},
		{"Beta Labs bags seed round", "Seed"},
		{"India scraps 'angel tax' for startups in major policy shift", "Angel"},
		{"Fintech raises convertible note", "Convertible Note"},
		{"Amazon acquires Whole Foods Market", ""},
	}
	for _, tt := range tests {
		got := ParseRound(tt.title)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("%q: expected no round, got %s", tt.title, *got)
		case tt.want != "" && (got == nil || *got != tt.want):
			t.Errorf("%q: expected round %s, got %v", tt.title, tt.want, got)
		}
	}
}
