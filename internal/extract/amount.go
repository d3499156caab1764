package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/capevent/internal/model"
)

var (
	// Context words open the gate only in their inflected forms, so
	// "security", "Valuable" and "Closer" keep "100M users" out
	amountGateRe = regexp.MustCompile(`(?i)\b(?:rais(?:e|es|ed|ing)|secur(?:e|es|ed|ing)|clos(?:e|es|ed|ing)|fund(?:s|ed|ing)|invest(?:s|ed|ing|ment|ments)?|rounds?|deals?|valuations?|valued|capital|series)\b`)

	symbolAmountRe    = regexp.MustCompile(`(?i)(HK\$|US\$|\$|€|£|₹)\s?(\d+(?:[.,]\d+)*)(?:\s*(bn|mn|mln|billion|million|thousand|[kmb])\b)?`)
	magnitudeAmountRe = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)*)\s*(bn|mn|mln|billion|million|thousand|[kmb])\b`)

	roundRe = regexp.MustCompile(`(?i)\b(pre-seed|seed|angel|series\s+[a-e]|growth|debt|convertible\s+note)\b`)
)

var currencySymbols = map[string]string{
	"HK$": "HKD",
	"US$": "USD",
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
	"₹":   "INR",
}

// ParseAmount extracts the first gated monetary amount from title.
// fx maps currency codes to USD rates; a missing rate leaves USDValue nil.
func ParseAmount(title string, fx map[string]float64) *model.Amount {
	if !amountGateRe.MatchString(title) {
		return nil
	}

	sym := symbolAmountRe.FindStringSubmatchIndex(title)
	mag := magnitudeAmountRe.FindStringSubmatchIndex(title)

	var amount *model.Amount
	switch {
	case sym != nil && (mag == nil || sym[0] <= mag[0]):
		amount = fromSymbolMatch(title, sym)
	case mag != nil:
		amount = fromMagnitudeMatch(title, mag)
	default:
		return nil
	}
	if amount == nil {
		return nil
	}

	if rate, ok := fx[amount.Currency]; ok && rate > 0 {
		usd := roundTo(amount.Value*amount.Magnitude.Multiplier()*rate, 2)
		amount.USDValue = &usd
	}
	return amount
}

func fromSymbolMatch(title string, loc []int) *model.Amount {
	value, ok := parseNumber(title[loc[4]:loc[5]])
	if !ok {
		return nil
	}
	magnitude := model.MagnitudeM
	if loc[6] >= 0 {
		magnitude = normalizeMagnitude(title[loc[6]:loc[7]])
	}
	return &model.Amount{
		Raw:       strings.TrimSpace(title[loc[0]:loc[1]]),
		Currency:  currencySymbols[strings.ToUpper(title[loc[2]:loc[3]])],
		Value:     value,
		Magnitude: magnitude,
	}
}

func fromMagnitudeMatch(title string, loc []int) *model.Amount {
	value, ok := parseNumber(title[loc[2]:loc[3]])
	if !ok {
		return nil
	}
	return &model.Amount{
		Raw:       strings.TrimSpace(title[loc[0]:loc[1]]),
		Currency:  "USD",
		Value:     value,
		Magnitude: normalizeMagnitude(title[loc[4]:loc[5]]),
	}
}

// normalizeMagnitude maps a matched suffix to K, M or B. Called exactly once
// per amount.
func normalizeMagnitude(token string) model.Magnitude {
	switch strings.ToLower(token) {
	case "k", "thousand":
		return model.MagnitudeK
	case "b", "bn", "billion":
		return model.MagnitudeB
	default:
		return model.MagnitudeM
	}
}

// parseNumber reads "1,200", "1.5" and "1,5"
func parseNumber(s string) (float64, bool) {
	if i := strings.LastIndex(s, ","); i >= 0 {
		if len(s)-i-1 == 3 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseRound returns the canonical funding round label, or nil
func ParseRound(title string) *string {
	m := roundRe.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	label := canonicalRound(m[1])
	return &label
}

func canonicalRound(raw string) string {
	lower := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	switch {
	case lower == "pre-seed":
		return "Pre-Seed"
	case strings.HasPrefix(lower, "series "):
		return "Series " + strings.ToUpper(lower[len(lower)-1:])
	case lower == "convertible note":
		return "Convertible Note"
	default:
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
