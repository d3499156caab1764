package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxEntityWords caps candidate length; longer strings are clauses
const maxEntityWords = 6

// Whitelist answers ontology membership. *ontology.Snapshot satisfies it.
type Whitelist interface {
	Contains(name string) bool
}

// EntityValidator decides whether a candidate string names an organization.
// Rules run as a cascade; the whitelist overrides any rejection.
type EntityValidator struct {
	known Whitelist
}

// NewEntityValidator creates a validator bound to one ontology snapshot.
// A nil whitelist disables the override.
func NewEntityValidator(known Whitelist) *EntityValidator {
	return &EntityValidator{known: known}
}

// IsValidEntityName reports whether name is accepted
func (v *EntityValidator) IsValidEntityName(name string) bool {
	ok, _ := v.Check(name)
	return ok
}

// IsKnown reports whether name is in the bound ontology snapshot
func (v *EntityValidator) IsKnown(name string) bool {
	return v != nil && v.known != nil && v.known.Contains(name)
}

// Check returns the verdict and the rule that decided it.
// Accepted names report "ok" or "ontology_override".
func (v *EntityValidator) Check(name string) (bool, string) {
	name = strings.TrimSpace(name)
	rule := rejectRule(name)
	if rule == "" {
		return true, "ok"
	}
	if v.IsKnown(name) {
		return true, "ontology_override"
	}
	return false, rule
}

// IsValidEntityName validates without an ontology override
func IsValidEntityName(name string) bool {
	return rejectRule(strings.TrimSpace(name)) == ""
}

// rejectRule returns the first rule that rejects name, or ""
func rejectRule(name string) string {
	if rule := shapeRule(name); rule != "" {
		return rule
	}

	lower := strings.ToLower(name)
	for _, list := range stoplists {
		if list.words[lower] {
			return list.rule
		}
	}

	for _, r := range structuralRules {
		if r.reject(name, lower) {
			return r.rule
		}
	}

	if len(strings.Fields(name)) > maxEntityWords {
		return "too_many_words"
	}
	return ""
}

func shapeRule(name string) string {
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return "too_short"
	}
	if strings.IndexFunc(name, unicode.IsLetter) < 0 {
		return "no_alpha"
	}
	if n <= 3 && !acronymRe.MatchString(name) {
		return "short_non_acronym"
	}
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsLower(first) {
		return "lowercase_start"
	}
	return ""
}

var acronymRe = regexp.MustCompile(`^[A-Z0-9&.]+$`)

type stoplist struct {
	rule  string
	words map[string]bool
}

var stoplists = []stoplist{
	{"stopword", lowerSet(
		"the", "a", "an", "this", "that", "these", "those", "it", "its", "they", "them",
		"their", "we", "our", "you", "your", "he", "she", "his", "her", "i", "my", "me",
		"us", "who", "what", "which", "for", "in", "on", "at", "to", "from", "with", "by",
		"of", "and", "or", "but", "as", "into", "after", "amid", "over", "new", "here",
		"there", "how", "why", "when", "where", "report", "reports", "exclusive", "breaking",
		"update", "watch", "opinion", "analysis",
	)},
	{"financing_noun", lowerSet(
		"funding", "round", "capital", "venture", "ventures", "investment", "investments",
		"financing", "fund", "funds", "debt", "equity", "cash", "deal", "deals", "valuation",
		"unicorn", "unicorns", "seed funding", "venture capital", "growth capital",
		"funding round", "private equity",
	)},
	{"funding_stage", lowerSet(
		"seed", "pre-seed", "angel", "series a", "series b", "series c", "series d",
		"series e", "series f", "ipo", "spac", "pre-ipo", "bridge", "growth", "late stage",
		"early stage",
	)},
	{"role_group", lowerSet(
		"researchers", "founders", "investors", "employees", "executives", "engineers",
		"scientists", "analysts", "regulators", "lawmakers", "officials", "startups",
		"companies", "customers", "users", "developers", "banks", "vcs", "shareholders",
		"workers", "experts", "leaders", "billionaires", "students", "creators", "entrepreneurs",
		"ceos", "cfos", "board", "staff",
	)},
	{"place_or_nationality", lowerSet(
		// places
		"india", "china", "us", "u.s.", "usa", "u.s.a.", "united states", "america", "uk",
		"u.k.", "britain", "great britain", "england", "europe", "eu", "asia", "africa",
		"japan", "germany", "france", "singapore", "israel", "canada", "brazil", "australia",
		"korea", "south korea", "indonesia", "vietnam", "nigeria", "kenya", "egypt", "mexico",
		"spain", "italy", "sweden", "finland", "norway", "denmark", "netherlands",
		"switzerland", "ireland", "dubai", "uae", "saudi arabia", "hong kong", "taiwan",
		"silicon valley", "san francisco", "new york", "london", "paris", "berlin",
		"bangalore", "bengaluru", "mumbai", "delhi", "new delhi", "beijing", "shanghai",
		"shenzhen", "tokyo", "seoul", "latin america", "latam", "middle east",
		"southeast asia", "mena", "gulf", "wall street", "washington", "texas", "california",
		// nationality adjectives
		"indian", "chinese", "american", "british", "european", "asian", "african",
		"japanese", "german", "french", "singaporean", "israeli", "canadian", "brazilian",
		"australian", "korean", "indonesian", "vietnamese", "nigerian", "kenyan",
		"egyptian", "mexican", "spanish", "italian", "swedish", "finnish", "norwegian",
		"danish", "dutch", "swiss", "irish", "emirati", "saudi", "taiwanese", "nordic",
		"latin american", "middle eastern", "southeast asian",
	)},
}

var nationalityAdjectives = lowerSet(
	"indian", "chinese", "american", "british", "european", "asian", "african",
	"japanese", "german", "french", "singaporean", "israeli", "canadian", "brazilian",
	"australian", "korean", "indonesian", "vietnamese", "nigerian", "kenyan", "egyptian",
	"mexican", "spanish", "italian", "swedish", "finnish", "norwegian", "danish", "dutch",
	"swiss", "irish", "emirati", "saudi", "taiwanese", "nordic", "estonian", "polish",
	"turkish", "pakistani", "bangladeshi", "filipino", "thai", "malaysian",
)

var famousPeople = lowerSet(
	"elon musk", "musk", "jeff bezos", "bezos", "mark zuckerberg", "zuckerberg",
	"sam altman", "altman", "bill gates", "warren buffett", "buffett", "sundar pichai",
	"satya nadella", "tim cook", "jensen huang", "larry page", "sergey brin",
	"masayoshi son", "mukesh ambani", "gautam adani", "jack ma", "larry ellison",
	"peter thiel", "marc andreessen", "reid hoffman", "vinod khosla", "dario amodei",
	"demis hassabis", "mustafa suleyman", "ratan tata", "nandan nilekani",
)

var nationalityPlurals = lowerSet(
	"indians", "americans", "europeans", "britons", "israelis", "canadians", "africans",
	"asians", "germans", "brazilians", "australians", "koreans", "nigerians", "kenyans",
	"mexicans", "italians", "swedes", "finns", "danes", "saudis", "emiratis",
)

var industryDescriptors = lowerSet(
	"ai", "a.i.", "genai", "generative ai", "fintech", "edtech", "healthtech", "proptech",
	"insurtech", "agritech", "agtech", "cleantech", "climate tech", "climatetech",
	"deeptech", "deep tech", "saas", "crypto", "web3", "blockchain", "biotech",
	"e-commerce", "ecommerce", "ev", "evs", "semiconductor", "semiconductors", "robotics",
	"cybersecurity", "tech", "big tech", "quantum", "defense tech", "defence tech",
	"spacetech", "space tech", "gaming", "retail", "healthcare", "logistics", "mobility",
	"d2c", "b2b", "b2c", "llm", "llms", "startup", "startups", "vc", "pe",
)

type structuralRule struct {
	rule   string
	reject func(name, lower string) bool
}

var (
	genericPrefixRe     = regexp.MustCompile(`(?i)^(?:startup|company|firm)\s+`)
	genericSuffixRe     = regexp.MustCompile(`(?i)\s(?:startup|firm|platform|service|app|maker|provider)s?$`)
	companySuffixRe     = regexp.MustCompile(`(?i)\scompany$`)
	financingSuffixRe   = regexp.MustCompile(`(?i)\s(?:funding|round|financing)$`)
	financingCapitalRe  = regexp.MustCompile(`(?i)\b(?:seed|growth|venture|debt|working|fresh|new|more|additional|raises?|raised|series\s+[a-e])\s+capital$`)
	possessivePhraseRe  = regexp.MustCompile(`(?i)^(?:your|my|our|their|his|her|its)\s`)
	connectiveStartRe   = regexp.MustCompile(`(?i)^(?:when|how|why|while|what|where|who|which|if|after|before|since|because|although|though|amid|despite|inside|meet|here's|here|should|can|will|could)\b`)
	formerPrefixRe      = regexp.MustCompile(`(?i)^former\s`)
	politicalFigureRe   = regexp.MustCompile(`(?i)\b(?:trump|biden|obama|modi|xi\s+jinping|putin|macron|sunak|starmer|scholz|trudeau|kamala\s+harris|meloni|erdogan|zelensky[iy]?)\b`)
	headlineVerbSuffix  = regexp.MustCompile(`(?i)\s(?:emerges|leaves|says|joins|exits|returns|wins|slams|warns|eyes|bets|plans|unveils|launches|raises|secures|acquires|invests|hires|names|shuts|cuts|lays|quits|steps|reveals|reports|gets|takes|makes|sees|hits|files|expands|announces|partners)$`)
	contentFormatSuffix = regexp.MustCompile(`(?i)\b(?:roundup|digest|predictions|newsletter|recap|podcast|dispatch|briefing|wrap-up|explainer)$`)
)

var structuralRules = []structuralRule{
	{"generic_prefix", func(name, _ string) bool { return genericPrefixRe.MatchString(name) }},
	{"generic_suffix", func(name, _ string) bool {
		return len(strings.Fields(name)) > 1 && genericSuffixRe.MatchString(name)
	}},
	{"company_suffix", func(name, lower string) bool {
		if !companySuffixRe.MatchString(name) {
			return false
		}
		return !strings.HasPrefix(lower, "the ") && len(strings.Fields(name)) < 3
	}},
	{"financing_suffix", func(name, _ string) bool {
		return financingSuffixRe.MatchString(name) || financingCapitalRe.MatchString(name)
	}},
	{"nationality_prefix", func(_, lower string) bool {
		fields := strings.Fields(lower)
		return len(fields) > 1 && nationalityAdjectives[fields[0]]
	}},
	{"possessive_phrase", func(name, _ string) bool { return possessivePhraseRe.MatchString(name) }},
	{"connective_start", func(name, _ string) bool { return connectiveStartRe.MatchString(name) }},
	{"former_prefix", func(name, _ string) bool { return formerPrefixRe.MatchString(name) }},
	{"famous_person", func(_, lower string) bool { return famousPeople[lower] }},
	{"nationality_plural", func(_, lower string) bool { return nationalityPlurals[lower] }},
	{"political_figure", func(name, _ string) bool { return politicalFigureRe.MatchString(name) }},
	{"headline_verb_suffix", func(name, _ string) bool {
		return len(strings.Fields(name)) > 1 && headlineVerbSuffix.MatchString(name)
	}},
	{"industry_descriptor", func(_, lower string) bool { return industryDescriptors[lower] }},
	{"content_format", func(name, _ string) bool { return contentFormatSuffix.MatchString(name) }},
}

func lowerSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}
