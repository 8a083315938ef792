package response

import "strings"

// forbiddenPrescriptive are imperative/predictive terms the formatter
// must never emit in a trend or effect sentence (§4.8).
var forbiddenPrescriptive = []string{" will ", "evacuate now", "must ", "you should"}

// ContainsForbiddenLanguage reports whether text uses prescriptive or
// predictive phrasing banned from response strings. Used by tests as a
// regression guard on the formatter's templates.
func ContainsForbiddenLanguage(text string) bool {
	lower := " " + strings.ToLower(text) + " "
	for _, w := range forbiddenPrescriptive {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
