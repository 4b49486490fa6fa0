package extract

import (
	"regexp"
	"strings"

	"github.com/DrZ199/Nelsonbook/internal/registry"
	"github.com/DrZ199/Nelsonbook/internal/storage"
)

// Window sizes, in characters, around a drug mention when looking for
// dosing statements. The wide radius applies inside therapeutics parts.
const (
	NarrowRadius = 500
	WideRadius   = 1000
)

const (
	amountNum  = `[\d\.-]+(?:\s*-\s*[\d\.]+)?`
	doseUnit   = `(?:mg|mcg|g|mL|L|IU|units)`
	perSuffix  = `(?:/(?:kg|dose|day|hr|h))?`
	freqSuffix = `(?:\s*(?:q|every)\s*\d+(?:-\d+)?\s*(?:hr|h|min|day))?`
	routeAlt   = `(?:PO|IV|IM|SC|PR|SL|oral|intranasal|topical)`
)

// dosageFact is one classified rule hit before it becomes a row.
type dosageFact struct {
	route    string
	ageGroup *string
	dosage   string
}

// A dosageRule pairs a pattern with the classifier that maps its capture
// groups onto a fact. Rules are data; adding one means adding a table entry.
type dosageRule struct {
	name string
	re   *regexp.Regexp
	// wideOnly rules fire only inside therapeutics parts.
	wideOnly bool
	classify func(groups []string, wide bool) (dosageFact, bool)
}

var dosageRules = []dosageRule{
	{
		name: "age-based",
		re: regexp.MustCompile(`(?i)(\d+(?:-\d+)?\s*(?:yr|year|mo|month|wk|week|day)s?):\s*(` +
			amountNum + `\s*` + doseUnit + perSuffix + freqSuffix + `)`),
		classify: classifyLeading,
	},
	{
		name:     "weight-based",
		re:       regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s*` + doseUnit + perSuffix + `)`),
		classify: classifyLeading,
	},
	{
		name: "route-amount",
		re: regexp.MustCompile(`(?i)(` + routeAlt + `)(?:[:/]\s*)(` +
			amountNum + `\s*` + doseUnit + perSuffix + freqSuffix + `)`),
		classify: classifyLeading,
	},
	{
		name: "amount-route",
		re: regexp.MustCompile(`(?i)(` + amountNum + `\s*` + doseUnit + perSuffix + freqSuffix +
			`)\s+(` + routeAlt + `)\b`),
		classify: func(groups []string, wide bool) (dosageFact, bool) {
			return dosageFact{route: groups[1], dosage: groups[0]}, true
		},
	},
	{
		name:     "q-frequency",
		re:       regexp.MustCompile(`(?i)(q\d+(?:-\d+)?h)\s+(` + amountNum + `\s*` + doseUnit + `)`),
		wideOnly: true,
		classify: classifyLeading,
	},
	{
		name:     "max-dose",
		re:       regexp.MustCompile(`(?i)(max(?:imum)?\s+(?:daily|single)?\s*dose)\s+(` + amountNum + `\s*` + doseUnit + `)`),
		wideOnly: true,
		classify: classifyLeading,
	},
	{
		name:     "loading-dose",
		re:       regexp.MustCompile(`(?i)(loading\s+dose)\s+(` + amountNum + `\s*` + doseUnit + `)`),
		wideOnly: true,
		classify: classifyLeading,
	},
	{
		name:     "maintenance-dose",
		re:       regexp.MustCompile(`(?i)(maintenance\s+dose)\s+(` + amountNum + `\s*` + doseUnit + `)`),
		wideOnly: true,
		classify: classifyLeading,
	},
}

var ageTokens = []string{"yr", "mo", "wk", "day"}

var routeTokens = []string{"PO", "IV", "IM", "SC", "PR", "SL", "oral", "topical", "intranasal"}

func containsToken(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// classifyLeading inspects the first capture group: a time-unit token makes
// it an age group, a route token makes it a route, and the dosage value is
// taken from the second group when the first carried meaning. Single-group
// rules only yield facts in wide mode.
func classifyLeading(groups []string, wide bool) (dosageFact, bool) {
	if !wide && len(groups) < 2 {
		return dosageFact{}, false
	}

	first := groups[0]
	var fact dosageFact
	if containsToken(first, ageTokens) {
		v := first
		fact.ageGroup = &v
	}
	if containsToken(first, routeTokens) {
		fact.route = first
	}

	fact.dosage = first
	if wide {
		if len(groups) >= 2 {
			fact.dosage = groups[1]
		}
	} else if fact.ageGroup != nil || fact.route != "" {
		fact.dosage = groups[1]
	}
	return fact, true
}

// ExtractDosages scans a text window around a drug mention and records one
// dosage row per rule match. Matches are never deduplicated; repeated
// statements in the text yield repeated rows.
func ExtractDosages(window string, drugID int64, reg *registry.Registry, wide bool) []*storage.DrugDosage {
	var out []*storage.DrugDosage
	for _, rule := range dosageRules {
		if rule.wideOnly && !wide {
			continue
		}
		for _, m := range rule.re.FindAllStringSubmatch(window, -1) {
			fact, ok := rule.classify(m[1:], wide)
			if !ok {
				continue
			}
			out = append(out, &storage.DrugDosage{
				ID:       reg.NextID(registry.KindDosage),
				DrugID:   drugID,
				Route:    fact.route,
				Dosage:   fact.dosage,
				AgeGroup: fact.ageGroup,
			})
		}
	}
	return out
}
