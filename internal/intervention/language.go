package intervention

import "strings"

// forbiddenCausalWords are terms that would claim causality rather than
// observational correlation. Checked by tests, not enforced at runtime —
// the comparative-effect template in Recommend never produces these, so
// this exists as a regression guard.
var forbiddenCausalWords = []string{
	"causes", "caused", "because of", "due to", "will reduce", "will lower", "leads to",
}

// ContainsCausalLanguage reports whether text uses forbidden causal
// phrasing, for use in tests asserting the no-causality invariant.
func ContainsCausalLanguage(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range forbiddenCausalWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
