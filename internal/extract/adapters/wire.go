package adapters

import (
	"regexp"
	"strings"
)

// Exchange listings in parentheses, e.g. "(NASDAQ: ACME)" or "(TSX: AB.U)"
var tickerRe = regexp.MustCompile(`\s*\((?i:NASDAQ|NYSE(?:\s+American)?|NYSE\s+Arca|AMEX|TSXV?|CSE|LSE|AIM|ASX|OTCQ[XB]|OTC|NSE|BSE|HKEX|SGX|Euronext)\s*:\s*([A-Z0-9.\-]+)\)`)

// WireAdapter cleans press-release wire titles
type WireAdapter struct {
	publishers []string
	domains    []string
}

// NewWireAdapter creates a new wire adapter
func NewWireAdapter() *WireAdapter {
	return &WireAdapter{
		publishers: []string{"pr newswire", "prnewswire", "business wire", "businesswire", "globenewswire", "globe newswire", "accesswire"},
		domains:    []string{"prnewswire.com", "businesswire.com", "globenewswire.com", "accesswire.com"},
	}
}

// Name returns the adapter name
func (w *WireAdapter) Name() string {
	return "wire"
}

// CanHandle matches wire publishers by name or domain
func (w *WireAdapter) CanHandle(publisher, rawURL string) bool {
	p := strings.ToLower(publisher)
	for _, name := range w.publishers {
		if strings.Contains(p, name) {
			return true
		}
	}
	return hostMatches(rawURL, w.domains...)
}

// Clean strips exchange tickers
func (w *WireAdapter) Clean(title, publisher string) (string, []string) {
	var notes []string
	for _, m := range tickerRe.FindAllStringSubmatch(title, -1) {
		notes = append(notes, "stripped_ticker:"+m[1])
	}
	if len(notes) == 0 {
		return title, nil
	}
	return strings.Join(strings.Fields(tickerRe.ReplaceAllString(title, "")), " "), notes
}
