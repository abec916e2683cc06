package retrieval

import (
	"fmt"
	"regexp"
	"strings"
)

// Expander generates query variations from the synonym dictionary and
// answers ambiguity checks. It is immutable after construction.
type Expander struct {
	synonyms  map[string][]string
	ambiguous map[string][]string
}

func NewExpander() *Expander {
	return &Expander{synonyms: defaultSynonyms, ambiguous: defaultAmbiguousTerms}
}

func NewExpanderWithDictionary(path string) (*Expander, error) {
	synonyms, ambiguous, err := LoadDictionary(path)
	if err != nil {
		return nil, err
	}
	return &Expander{synonyms: synonyms, ambiguous: ambiguous}, nil
}

// Expand returns the lowercased query plus one variation per synonym
// substitution per word position, and a "<base> near me" variation when the
// query contains a location clause. The result is de-duplicated and the
// original query always comes first.
func (e *Expander) Expand(query string) []string {
	base := strings.ToLower(strings.TrimSpace(query))
	if base == "" {
		return nil
	}

	variations := []string{base}
	words := strings.Fields(base)

	for i, word := range words {
		for _, syn := range e.synonyms[word] {
			variant := make([]string, len(words))
			copy(variant, words)
			variant[i] = strings.ToLower(syn)
			variations = append(variations, strings.Join(variant, " "))
		}
	}

	if prefix, _, found := strings.Cut(base, " in "); found && prefix != "" {
		variations = append(variations, prefix+" near me")
	}

	seen := make(map[string]struct{}, len(variations))
	unique := variations[:0]
	for _, v := range variations {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

// DetectAmbiguity returns a clarification prompt when the query contains a
// term with multiple known meanings, or "" otherwise.
func (e *Expander) DetectAmbiguity(query string) string {
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?")
		if meanings, ok := e.ambiguous[word]; ok {
			return fmt.Sprintf("I noticed you mentioned '%s'. Did you mean: %s?", word, strings.Join(meanings, ", "))
		}
	}
	return ""
}

var locationPattern = regexp.MustCompile(`(?i)\b(?:in|at|near|around)\s+([A-Za-z][A-Za-z ]*?)(?:[,.]|$)`)

// ExtractLocation pulls a location out of phrases like "jobs in Mumbai" or
// "events near Pune". Returns "" when no location clause is present.
func ExtractLocation(message string) string {
	match := locationPattern.FindStringSubmatch(message)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
