package extract

import (
	"regexp"

	"github.com/ppiankov/capevent/internal/model"
)

// SlotMode selects how slots are read around a matched verb span
type SlotMode string

const (
	ModeExec  SlotMode = "exec"  // subject left of trigger, person from two captures
	ModeSelf  SlotMode = "self"  // subject only
	ModeAfter SlotMode = "after" // subject left, object right of the verb
	ModeWith  SlotMode = "with"  // object after "with", optional tertiary
	ModeFrom  SlotMode = "from"  // object after the last " from "
	ModeBy    SlotMode = "by"    // passive: subject right, object left
	ModePair  SlotMode = "pair"  // "A and B <verb>": last two chunks before the verb
)

// Pattern is one classification rule. ID is a stable identifier whose
// substrings drive event type mapping; declaration order is precedence.
type Pattern struct {
	ID         string
	Regex      *regexp.Regexp
	Frame      model.FrameType
	Mode       SlotMode
	Confidence float64
	Verb       string
}

// Shared fragments
const (
	amountFrag = `(?:(?:HK|US|S|A|C)?\$|€|£|₹)?\s?\d[\d.,]*\s*(?:bn|mn|mln|billion|million|thousand|[kmb])?`
	roleFrag   = `(?i:CEO|CFO|COO|CTO|CMO|CPO|CRO|CIO|CISO|chair(?:man|woman|person)?|president|chief\s+\w+(?:\s+\w+)?\s+officer|head\s+of\s+\w+|managing\s+director|general\s+counsel)`
	nameFrag   = `([A-Z][\w.'-]+)\s+([A-Z][\w.'-]+)`
)

var defaultPatterns = []Pattern{
	// Executive changes
	{
		ID: "exec_names",
		Regex: regexp.MustCompile(`\b(?i:names|named|appoints|appointed|hires|hired|taps|tapped|promotes|promoted|elevates|elevated|picks|ropes\s+in)\s+` +
			nameFrag + `(?:,)?\s+(?i:as\s+)?(?i:(?:its|new|interim|acting|global|group|first|next)\s+)*` + roleFrag + `\b`),
		Frame: model.FrameExecEvent, Mode: ModeExec, Confidence: 0.9, Verb: "names",
	},
	{
		ID: "exec_departure",
		Regex: regexp.MustCompile(`\b` + roleFrag + `\s+` + nameFrag +
			`\s+(?i:steps\s+down|resigns|quits|departs|exits|leaves|to\s+step\s+down|is\s+out)\b`),
		Frame: model.FrameExecEvent, Mode: ModeExec, Confidence: 0.85, Verb: "departs",
	},

	// Mergers
	{
		ID:    "bi_merge_with",
		Regex: regexp.MustCompile(`(?i)\b(?:merges?|merged|merging|to\s+merge|completes\s+merger|announces\s+merger|agrees\s+to\s+merge)\s+with\b`),
		Frame: model.FrameBidirectional, Mode: ModeWith, Confidence: 0.9, Verb: "merges_with",
	},
	{
		ID:    "bi_merge_and",
		Regex: regexp.MustCompile(`(?i)\b(?:to\s+merge|merge|agree\s+to\s+merge|complete\s+merger)\b`),
		Frame: model.FrameBidirectional, Mode: ModePair, Confidence: 0.8, Verb: "merge",
	},

	// Acquisitions
	{
		ID:    "dir_acquired_by",
		Regex: regexp.MustCompile(`(?i)\b(?:acquired|bought|purchased|snapped\s+up|taken\s+over)\s+by\b`),
		Frame: model.FrameDirectional, Mode: ModeBy, Confidence: 0.9, Verb: "acquired_by",
	},
	{
		ID: "dir_acquires",
		Regex: regexp.MustCompile(`(?i)\b(?:completes\s+(?:the\s+)?acquisition\s+of|announces\s+(?:the\s+)?acquisition\s+of|agrees\s+to\s+(?:acquire|buy)|to\s+acquire|to\s+buy|acquires|acquired|acquiring|buys|snaps\s+up|takes\s+over)\b`),
		Frame: model.FrameDirectional, Mode: ModeAfter, Confidence: 0.9, Verb: "acquires",
	},

	// Partnerships, most specific first
	{
		ID:    "bi_strategic_partnership",
		Regex: regexp.MustCompile(`(?i)\b(?:(?:forms?|announces?|signs?|inks?|strikes?|enters?(?:\s+into)?|expands?)\s+)?(?:an?\s+)?(?:new\s+|multi-year\s+|global\s+)?strategic\s+(?:partnership|alliance|collaboration)\s+with\b`),
		Frame: model.FrameBidirectional, Mode: ModeWith, Confidence: 0.9, Verb: "strategic_partnership_with",
	},
	{
		ID:    "bi_partnership_with",
		Regex: regexp.MustCompile(`(?i)\b(?:partnership|alliance|collaboration|tie-up|joint\s+venture)\s+with\b`),
		Frame: model.FrameBidirectional, Mode: ModeWith, Confidence: 0.85, Verb: "partnership_with",
	},
	{
		ID:    "bi_partners_with",
		Regex: regexp.MustCompile(`(?i)\b(?:partners?|partnered|partnering|teams?\s+up|teamed\s+up|joins?\s+forces|joined\s+forces|collaborates?|collaborated|ties\s+up|allies)\s+with\b`),
		Frame: model.FrameBidirectional, Mode: ModeWith, Confidence: 0.85, Verb: "partners_with",
	},
	{
		ID:    "bi_partner_joint_venture",
		Regex: regexp.MustCompile(`(?i)\b(?:forms?|form|launch(?:es)?|sets?\s+up|set\s+up|creates?|announces?|announce)\s+(?:an?\s+)?(?:new\s+)?joint\s+venture\b`),
		Frame: model.FrameBidirectional, Mode: ModePair, Confidence: 0.8, Verb: "joint_venture",
	},

	// Contracts
	{
		ID:    "dir_contract_award_from",
		Regex: regexp.MustCompile(`(?i)\b(?:contract|order|tender)\s+from\b`),
		Frame: model.FrameDirectional, Mode: ModeFrom, Confidence: 0.85, Verb: "contract_from",
	},
	{
		ID:    "dir_contract_awarded_to",
		Regex: regexp.MustCompile(`(?i)\b(?:awards?|awarded|grants?|granted)\s+(?:an?\s+)?(?:` + amountFrag + `\s+)?(?:[\w-]+\s+){0,3}?contract\s+to\b`),
		Frame: model.FrameDirectional, Mode: ModeAfter, Confidence: 0.85, Verb: "awards_contract",
	},
	{
		ID:    "self_contract_wins",
		Regex: regexp.MustCompile(`(?i)\b(?:wins|won|secures|secured|lands|landed|bags|bagged)\s+(?:an?\s+)?(?:` + amountFrag + `\s+)?(?:[\w-]+\s+){0,3}?contracts?\b`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.75, Verb: "wins_contract",
	},

	// IPOs
	{
		ID:    "self_ipo_files",
		Regex: regexp.MustCompile(`(?i)\b(?:files?|filed|filing)\b.{0,30}?\b(?:IPO|DRHP|initial\s+public\s+offering|to\s+go\s+public|for\s+listing)\b`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.9, Verb: "files_ipo",
	},
	{
		ID:    "self_ipo_prices",
		Regex: regexp.MustCompile(`(?i)\b(?:(?:prices?|priced|launches|launched|opens|plans?|eyes|targets|kicks\s+off)\b.{0,30}?\bIPO|(?:goes|going|went|to\s+go)\s+public|debuts\s+on\s+(?:the\s+)?(?:NYSE|Nasdaq|NSE|BSE|LSE))\b`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.85, Verb: "prices_ipo",
	},

	// Investments by an investor into a target
	{
		ID:    "dir_invest_leads_round",
		Regex: regexp.MustCompile(`(?i)\b(?:leads?|led|co-leads?|co-led)\s+(?:an?\s+|the\s+)?(?:` + amountFrag + `\s+)?(?:[\w-]+\s+){0,3}?(?:round|investment|funding|financing)\s+(?:in|into|for)\b`),
		Frame: model.FrameDirectional, Mode: ModeAfter, Confidence: 0.85, Verb: "leads_round",
	},
	{
		ID:    "dir_invests_in",
		Regex: regexp.MustCompile(`(?i)\b(?:invests|invested|investing|pumps|pumped|pours|poured|injects|injected|commits|committed)\b.{0,40}?\b(?:in|into)\b`),
		Frame: model.FrameDirectional, Mode: ModeAfter, Confidence: 0.85, Verb: "invests_in",
	},

	// Funding with a named investor
	{
		ID:    "dir_fund_led_by",
		Regex: regexp.MustCompile(`(?i)\b(?:round|funding|financing|investment|raise|series\s+[a-e]|seed)\b[^,;]{0,30}?\b(?:led|co-led)\s+by\b`),
		Frame: model.FrameDirectional, Mode: ModeAfter, Confidence: 0.9, Verb: "funding_led_by",
	},
	{
		ID:    "dir_fund_raise_from",
		Regex: regexp.MustCompile(`(?i)\b(?:raises?|raised|raising|secures?|secured|bags?|bagged|gets?|receives?|received|lands?|landed|closes?|closed)\b.{0,60}?\bfrom\b`),
		Frame: model.FrameDirectional, Mode: ModeFrom, Confidence: 0.9, Verb: "raises_from",
	},

	// Funding
	{
		ID:    "self_fund_raise",
		Regex: regexp.MustCompile(`(?i)\b(?:raises?|raised|raising)\b`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.9, Verb: "raises",
	},
	{
		ID:    "self_fund_secures",
		Regex: regexp.MustCompile(`(?i)\b(?:secures?|secured|bags?|bagged|lands?|landed|closes?|closed|nabs?|snags?|gets?|receives?|received)\b.{0,40}?\b(?:funding|round|financing|investment|seed|series\s+[a-e]|capital|backing)\b`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.85, Verb: "secures_funding",
	},
	{
		ID:    "self_fund_secures_amount",
		Regex: regexp.MustCompile(`(?i)\b(?:secures?|secured|bags?|bagged|lands?|landed|closes?|closed|nabs?|snags?)\s+(?:HK\$|US\$|\$|€|£|₹)\s?\d[\d.,]*`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.8, Verb: "secures",
	},

	// Valuation
	{
		ID:    "self_valuation",
		Regex: regexp.MustCompile(`(?i)\b(?:valued\s+at|valuation\s+of|(?:at|hits?|reaches|reached)\s+(?:an?\s+)?` + amountFrag + `\s+valuation|becomes?\s+(?:an?\s+)?unicorn|unicorn\s+status)\b`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.8, Verb: "valued_at",
	},

	// Launches
	{
		ID:    "self_launch",
		Regex: regexp.MustCompile(`(?i)\b(?:launches|launched|launching|unveils|unveiled|debuts|debuted|rolls\s+out|rolled\s+out|introduces|introduced|releases|released)\b`),
		Frame: model.FrameSelfEvent, Mode: ModeSelf, Confidence: 0.75, Verb: "launches",
	},

	// Generic partnership mention, lowest precedence
	{
		ID:    "bi_partner_generic",
		Regex: regexp.MustCompile(`(?i)\b(?:partners?|partnership|partnering|partnered|ties?\s+up|tie-up|alliance|collaborat\w*)\b`),
		Frame: model.FrameBidirectional, Mode: ModeWith, Confidence: 0.6, Verb: "partners",
	},
}

// DefaultPatterns returns a copy of the built-in pattern table in precedence order
func DefaultPatterns() []Pattern {
	out := make([]Pattern, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

// PatternIndex returns the precedence position of id, or -1
func PatternIndex(patterns []Pattern, id string) int {
	for i, p := range patterns {
		if p.ID == id {
			return i
		}
	}
	return -1
}
