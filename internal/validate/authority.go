package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/capevent/internal/model"
)

// AuthorityClassifier assigns headline sources to authority tiers.
// Wires and regulators are primary, business media secondary.
type AuthorityClassifier struct {
	domainMap map[string]model.AuthorityTier
	primary   []string
	secondary []string
	paths     []pathRule
}

type pathRule struct {
	re   *regexp.Regexp
	tier model.AuthorityTier
}

// NewAuthorityClassifier builds a classifier from config; nil uses defaults.
// Path patterns that fail to compile are skipped.
func NewAuthorityClassifier(cfg *model.AuthorityConfig) *AuthorityClassifier {
	if cfg == nil {
		cfg = &model.DefaultConfig().Authority
	}

	c := &AuthorityClassifier{
		domainMap: make(map[string]model.AuthorityTier, len(cfg.DomainMap)),
		primary:   lowerAll(cfg.PrimaryDomains),
		secondary: lowerAll(cfg.SecondaryDomains),
	}
	for host, tier := range cfg.DomainMap {
		c.domainMap[strings.ToLower(host)] = ParseTier(tier)
	}
	for _, p := range cfg.PathPatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		c.paths = append(c.paths, pathRule{re: re, tier: ParseTier(p.Tier)})
	}
	return c
}

// Classify returns the tier for a source URL. Empty or unparsable URLs are
// unknown; anything unmatched is tertiary.
func (c *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	if strings.TrimSpace(rawURL) == "" {
		return model.TierUnknown
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return model.TierUnknown
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	if tier, ok := c.domainMap[host]; ok {
		return tier
	}
	if matchesDomain(host, c.primary) {
		return model.TierPrimary
	}
	if matchesDomain(host, c.secondary) {
		return model.TierSecondary
	}
	for _, p := range c.paths {
		if p.re.MatchString(u.Path) {
			return p.tier
		}
	}
	if strings.HasSuffix(host, ".gov") {
		return model.TierPrimary
	}
	return model.TierTertiary
}

// matchesDomain reports host equal to or a subdomain of any listed domain
func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// ParseTier converts "primary", "secondary", "tertiary" or "1".."3".
// Anything else is tertiary.
func ParseTier(s string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
