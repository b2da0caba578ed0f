package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/seolens/pkg/seolens/internalerr"
)

// Rule is one deny pattern: a regular expression matched against the
// phrase and the reason reported when it matches.
type Rule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Reason  string `yaml:"reason" json:"reason"`
}

type compiledRule struct {
	re     *regexp.Regexp
	reason string
}

// PatternTable is an ordered set of compiled deny rules.
type PatternTable struct {
	rules []compiledRule
}

// NewPatternTable compiles rules in order. An invalid expression is
// reported with internalerr.ErrInvalidConfig.
func NewPatternTable(rules []Rule) (*PatternTable, error) {
	t := &PatternTable{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d: %w: empty pattern", i, internalerr.ErrInvalidConfig)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d %q: %w: %w", i, r.Pattern, internalerr.ErrInvalidConfig, err)
		}
		reason := r.Reason
		if reason == "" {
			reason = r.Pattern
		}
		t.rules = append(t.rules, compiledRule{re: re, reason: reason})
	}
	return t, nil
}

// MustPatternTable is NewPatternTable for rules known to be valid.
func MustPatternTable(rules []Rule) *PatternTable {
	t, err := NewPatternTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Match returns the reason of the first rule matching phrase.
func (t *PatternTable) Match(phrase string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, r := range t.rules {
		if r.re.MatchString(phrase) {
			return r.reason, true
		}
	}
	return "", false
}

// Len returns the number of rules
func (t *PatternTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// DefaultNoiseRules are word combinations that read as fragments of
// running text rather than topics.
func DefaultNoiseRules() []Rule {
	return []Rule{
		{Pattern: `است که`, Reason: "copula clause"},
		{Pattern: `بود که`, Reason: "copula clause"},
		{Pattern: `می باشد`, Reason: "verbal fragment"},
		{Pattern: `است (?:در|به|از|با)`, Reason: "copula followed by preposition"},
		{Pattern: `(?:این|آن|برای) که`, Reason: "subordinate clause"},
		{Pattern: `محتوای موجود`, Reason: "editor boilerplate"},
		{Pattern: `^موجود`, Reason: "editor boilerplate"},
		{Pattern: `ویرایشگر`, Reason: "editor boilerplate"},
		{Pattern: `^ابزار`, Reason: "editor boilerplate"},
		{Pattern: `عمل کن`, Reason: "imperative fragment"},
		{Pattern: `^کن(?:\s|$)`, Reason: "imperative fragment"},
		{Pattern: `استفاده می`, Reason: "verbal fragment"},
	}
}

// Word boundaries are spelled out because \b only knows ASCII words.
func startsWith(words string) string { return `^(?:` + words + `)(?:\s|$)` }
func endsWith(words string) string   { return `(?:^|\s)(?:` + words + `)$` }

// DefaultBoundaryRules reject phrases that start or end on a function word.
func DefaultBoundaryRules() []Rule {
	return []Rule{
		{Pattern: startsWith(`از|در|به|با|برای|تا|بر|روی|زیر`), Reason: "starts with a preposition"},
		{Pattern: endsWith(`است|بود|باشد|شود|شد|کرد|کند|دارد|نیست|هست`), Reason: "ends with an auxiliary"},
		{Pattern: startsWith(`این|آن|یک|دو|سه|همین|همان`), Reason: "starts with a demonstrative or numeral"},
		{Pattern: endsWith(`و|یا|که|اما|ولی`), Reason: "ends with a conjunction"},
		{Pattern: startsWith(`خیلی|بسیار|کاملا|فقط`), Reason: "starts with an intensifier"},
	}
}
