package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Rules maps a category to its ordered lexical cues. Categories without an
// entry score 0 on patterns.
type Rules map[Category][]*regexp2.Regexp

// Rule sources may use \b freely. It is rewritten to a zero-width boundary
// where letters with diacritics count as word characters, so two boundaries
// can share one separator ("indica bom") and a word ending in an accented
// letter matches too ("café", "já"), which an ASCII-only \b never does.
const wordBoundary = `(?:(?<=[\p{L}\p{N}_])(?![\p{L}\p{N}_])|(?<![\p{L}\p{N}_])(?=[\p{L}\p{N}_]))`

// ruleTimeout bounds backtracking on long messages; a rule that times out
// counts as not matching.
const ruleTimeout = 100 * time.Millisecond

var defaultRuleSource = map[Category][]string{
	CategoryWork: {
		`\b(trabalho|emprego|projeto|reuni[ãa]o|cliente|apresenta[çc][ãa]o|relat[óo]rio)\b`,
		`\b(prazo|deadline|entrega|feedback|equipe|time)\b`,
		`\b(produtividade|gest[ãa]o|organiza[çc][ãa]o|profissional)\b`,
	},
	CategoryLocalSuggestions: {
		`\bonde\s+(fica|[ée]|tem|encontr[ao]|acho)\b`,
		`\b(pr[óo]ximo|perto|regi[ãa]o|local|lugar)\b`,
		`\b(restaurante|academia|shopping|loja|caf[ée]|bar)\b`,
		`\b(conhece[mr]?|indica[mr]?|recomenda[mr]?)\b.*\b(bom|boa|melhor)\b`,
	},
	CategoryGeneralQuestions: {
		`^(qual|como|quando|onde|por que|quem)\b`,
		`\b(voc[êe]s|algu[ée]m)\s+(j[áa]|tem|gosta[mr]?|acha[mr]?)\b`,
		`\b(dicas?|sugest[õo]es|opini[ãa]o|recomenda[çc][ãa]o)\b`,
	},
}

var (
	defaultRules = MustCompileRules(defaultRuleSource)

	directQuestion = compileRule(`^(qual|como|quando|onde|por que|quem|who|what|when|where|why|how)\b`)
)

func DefaultRules() Rules {
	out := make(Rules, len(defaultRules))
	for category, patterns := range defaultRules {
		out[category] = append([]*regexp2.Regexp(nil), patterns...)
	}
	return out
}

func CompileRules(source map[Category][]string) (Rules, error) {
	rules := make(Rules, len(source))
	for category, patterns := range source {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
		for _, pattern := range patterns {
			re, err := compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("compile rule %q for %s: %w", pattern, category, err)
			}
			rules[category] = append(rules[category], re)
		}
	}
	return rules, nil
}

func MustCompileRules(source map[Category][]string) Rules {
	rules, err := CompileRules(source)
	if err != nil {
		panic(err)
	}
	return rules
}

// Matches counts how many rules of category match text.
func (r Rules) Matches(category Category, text string) int {
	count := 0
	for _, re := range r[category] {
		if matches(re, text) {
			count++
		}
	}
	return count
}

func IsDirectQuestion(text string) bool {
	return matches(directQuestion, text)
}

func matches(re *regexp2.Regexp, text string) bool {
	ok, err := re.MatchString(text)
	return err == nil && ok
}

func rewriteRule(pattern string) string {
	return strings.ReplaceAll(pattern, `\b`, wordBoundary)
}

func compile(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(rewriteRule(pattern), regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = ruleTimeout
	return re, nil
}

func compileRule(pattern string) *regexp2.Regexp {
	re, err := compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}
