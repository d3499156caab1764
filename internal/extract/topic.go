package extract

import "regexp"

// Newsletter and listicle titles carry no single event
var topicHeadlineRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b20\d{2}\s+predictions\b`),
	regexp.MustCompile(`(?i)\bdispatch\s+from\b`),
	regexp.MustCompile(`(?i)\broundup\b`),
	regexp.MustCompile(`(?i)\bweekly\s+digest\b`),
	regexp.MustCompile(`(?i)^top\s+\d+\b`),
}

// IsTopicHeadline reports whether title is a roundup/newsletter style headline
func IsTopicHeadline(title string) bool {
	for _, re := range topicHeadlineRes {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}
