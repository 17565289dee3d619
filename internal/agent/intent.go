package agent

import (
	"regexp"
	"strings"
)

// intentMatcher does coarse keyword intent detection. It backs the
// selector's tie-break (medical wins when both readings apply) and its
// fallback when the model's selection names no participant.
type intentMatcher struct {
	medical  *regexp.Regexp
	document *regexp.Regexp
}

func newIntentMatcher() *intentMatcher {
	return &intentMatcher{
		medical: regexp.MustCompile(`(?i)\b(diabet\w*|glucose|insulin|blood\s*pressure|bmi|pregnan\w*|pedigree|symptom\w*|disease\w*|health|medical|doctor|diagnos\w*)\b`),
		document: regexp.MustCompile(`(?i)\b(document\w*|policy|policies|pdf|manual\w*|aviation|regulation\w*|report\w*|ingest\w*)\b`),
	}
}

// Medical reports whether the input reads as a health query.
func (m *intentMatcher) Medical(input string) bool {
	return m.medical.MatchString(strings.TrimSpace(input))
}

// Document reports whether the input reads as a document/policy query.
func (m *intentMatcher) Document(input string) bool {
	return m.document.MatchString(strings.TrimSpace(input))
}
