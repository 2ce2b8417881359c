package lint

import "strings"

// DocsBaseURL is where rule pages are published.
const DocsBaseURL = "https://github.com/leapstack-labs/bqlint/blob/main/docs/rules"

// BuildDocURL returns the documentation page of a rule, e.g. .../st01.md.
func BuildDocURL(ruleID string) string {
	return DocsBaseURL + "/" + strings.ToLower(ruleID) + ".md"
}

// ImpactLevel is a coarse score attached to diagnostics, from 0 to 100.
type ImpactLevel int

// Impact levels used by the built-in rules.
const (
	ImpactLow      ImpactLevel = 20 // style, volatile results
	ImpactMedium   ImpactLevel = 50
	ImpactHigh     ImpactLevel = 70 // dead code
	ImpactCritical ImpactLevel = 90 // invalid query or full scan
)

// Int returns the score.
func (l ImpactLevel) Int() int { return int(l) }
