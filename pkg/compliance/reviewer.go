package compliance

import (
	"log"
	"regexp"
	"strings"

	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// Flags raised during review. A flag is independent of the final approval
// decision: some flags block approval, others only annotate.
const (
	FlagProhibitedContent        = "prohibited_content"
	FlagPersonalizedAdvice       = "personalized_advice"
	FlagInvestmentRecommendation = "investment_recommendation"
	FlagReturnPromise            = "return_promise"
	FlagTimeSensitive            = "time_sensitive"
)

// RedactedMarker replaces prohibited phrases in the sanitized text. Its
// presence also keeps a previously sanitized response unapproved, so
// re-reviewing sanitized output never flips the approval decision.
const RedactedMarker = "[content removed for compliance]"

const (
	jurisdiction = "US"
	lastReviewed = "2024-01-01"
)

// prohibitedPhrases block approval and are redacted from the sanitized text.
// These are multi-word phrases, so plain substring matching cannot corrupt a
// longer word.
var prohibitedPhrases = []string{
	"guaranteed returns", "risk-free", "sure thing", "can't lose",
	"guaranteed profit", "guaranteed income", "no risk", "safe bet",
}

// adviceRewrites maps personalized-advice phrasing to impersonal
// equivalents. Matching is on word boundaries so words that merely contain
// a flagged phrase ("you shoulder") are left intact.
var adviceRewrites = []struct {
	phrase      string
	replacement string
}{
	{"you should", "one might consider"},
	{"you must", "it's important to understand that"},
	{"you need to", "it's worth noting that"},
	{"i recommend you", "research suggests that"},
	{"you ought to", "it may be beneficial to"},
	{"you would be wise to", "it's worth considering that"},
	{"you would benefit from", "one might benefit from"},
}

var recommendationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bbuy\s+\w+`),
	regexp.MustCompile(`\bsell\s+\w+`),
	regexp.MustCompile(`\binvest\s+in\s+\w+`),
	regexp.MustCompile(`\bpurchase\s+\w+`),
	regexp.MustCompile(`\bavoid\s+\w+`),
}

// returnPromisePattern catches numeric return promises with up to a few
// words between the verb and the percentage ("guarantee you 20%").
var returnPromisePattern = regexp.MustCompile(`\b(?:guarantee[ds]?|promise[ds]?|ensure[ds]?)\b(?:\s+\w+){0,3}\s+\d+(?:\.\d+)?\s*%`)

var urgencyPhrases = []string{
	"today only", "limited time", "act now", "immediate action",
	"urgent", "time-sensitive", "expires soon",
}

var categoryDisclaimers = map[string]string{
	"general":   "This information is for educational purposes only and should not be considered as investment advice.",
	"portfolio": "Portfolio analysis is for educational purposes only. Past performance does not guarantee future results.",
	"market":    "Market data and analysis are for informational purposes only and should not be considered as investment advice.",
	"trading":   "Trading involves risk and may not be suitable for all investors. Please consult with a financial advisor.",
}

var baseRiskWarnings = []string{
	"Investing involves risk, including the potential loss of principal.",
	"Past performance does not guarantee future results.",
	"Diversification does not ensure a profit or protect against loss.",
	"Consider your investment objectives and risk tolerance before investing.",
}

// Review is the resolved outcome of a compliance pass over one response
type Review struct {
	Sanitized  string
	Approved   bool
	Compliance store.Compliance
}

// Reviewer scans responses for prohibited or advice-like content, rewrites
// or redacts it, and attaches disclaimers and risk warnings. It is pure
// with respect to its inputs: no I/O, no randomness, never fails.
type Reviewer struct {
	prohibitedRe []*regexp.Regexp
	adviceRe     []*regexp.Regexp
	logger       *log.Logger
}

// NewReviewer creates a compliance reviewer with the fixed rule tables
func NewReviewer(logger *log.Logger) *Reviewer {
	r := &Reviewer{logger: logger}
	for _, phrase := range prohibitedPhrases {
		r.prohibitedRe = append(r.prohibitedRe, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
	}
	for _, rw := range adviceRewrites {
		r.adviceRe = append(r.adviceRe, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(rw.phrase)+`\b`))
	}
	return r
}

// Review runs the full compliance pass over a response. A missing response
// is treated as the empty string and processed normally.
func (r *Reviewer) Review(response, category string) *Review {
	lower := strings.ToLower(response)

	approved := true
	var flags []string

	for _, phrase := range prohibitedPhrases {
		if strings.Contains(lower, phrase) {
			approved = false
			flags = appendFlag(flags, FlagProhibitedContent)
		}
	}
	// A response carrying already-redacted content stays unapproved.
	if strings.Contains(lower, RedactedMarker) {
		approved = false
		flags = appendFlag(flags, FlagProhibitedContent)
	}

	for _, re := range r.adviceRe {
		if re.MatchString(lower) {
			flags = appendFlag(flags, FlagPersonalizedAdvice)
		}
	}

	for _, re := range recommendationPatterns {
		if re.MatchString(lower) {
			flags = appendFlag(flags, FlagInvestmentRecommendation)
		}
	}

	if returnPromisePattern.MatchString(lower) {
		approved = false
		flags = appendFlag(flags, FlagReturnPromise)
	}

	for _, phrase := range urgencyPhrases {
		if strings.Contains(lower, phrase) {
			flags = appendFlag(flags, FlagTimeSensitive)
		}
	}

	if !approved && r.logger != nil {
		r.logger.Printf("[COMPLIANCE] Response not approved (flags: %s)", strings.Join(flags, ","))
	}

	return &Review{
		Sanitized: r.sanitize(response),
		Approved:  approved,
		Compliance: store.Compliance{
			Disclaimers:  r.disclaimers(category, flags),
			RiskWarnings: r.riskWarnings(category),
			Flags:        flags,
			Jurisdiction: jurisdiction,
			LastReviewed: lastReviewed,
		},
	}
}

func (r *Reviewer) sanitize(response string) string {
	sanitized := response
	for _, re := range r.prohibitedRe {
		sanitized = re.ReplaceAllString(sanitized, RedactedMarker)
	}
	for i, re := range r.adviceRe {
		sanitized = re.ReplaceAllString(sanitized, adviceRewrites[i].replacement)
	}
	return sanitized
}

func (r *Reviewer) disclaimers(category string, flags []string) []string {
	disclaimers := []string{categoryDisclaimers["general"]}

	if d, ok := categoryDisclaimers[category]; ok && category != "general" {
		disclaimers = append(disclaimers, d)
	}

	for _, flag := range flags {
		switch flag {
		case FlagPersonalizedAdvice:
			disclaimers = append(disclaimers, "This response is for educational purposes only and should not be considered as personalized investment advice.")
		case FlagInvestmentRecommendation:
			disclaimers = append(disclaimers, "Any investment examples are for educational purposes only and should not be considered as recommendations.")
		case FlagReturnPromise:
			disclaimers = append(disclaimers, "No investment can guarantee returns. All investments carry risk.")
		}
	}

	return disclaimers
}

func (r *Reviewer) riskWarnings(category string) []string {
	warnings := make([]string, len(baseRiskWarnings))
	copy(warnings, baseRiskWarnings)

	switch category {
	case "portfolio":
		warnings = append(warnings, "Portfolio analysis is based on historical data and may not reflect future performance.")
	case "market":
		warnings = append(warnings, "Market data is subject to change and may not be current at the time of your decision.")
	case "trading":
		warnings = append(warnings, "Trading involves substantial risk and may not be suitable for all investors.")
	}

	return warnings
}

func appendFlag(flags []string, flag string) []string {
	for _, f := range flags {
		if f == flag {
			return flags
		}
	}
	return append(flags, flag)
}
