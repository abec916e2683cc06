package retrieval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// defaultSynonyms carries the built-in India-aware synonym map. Keys are
// single lowercase words; values are replacement phrases substituted at the
// matching word position during expansion.
var defaultSynonyms = map[string][]string{
	"tech":       {"technology", "software", "IT", "engineering"},
	"job":        {"position", "role", "opportunity"},
	"jobs":       {"positions", "roles", "opportunities"},
	"remote":     {"work from home", "wfh", "virtual"},
	"event":      {"conference", "meetup", "workshop"},
	"session":    {"workshop", "seminar", "webinar"},
	"career":     {"professional", "employment", "vocation"},
	"women":      {"female", "gender diversity"},
	"mentorship": {"guidance", "coaching", "advising"},

	// Indian city aliases
	"delhi":     {"new delhi", "delhi ncr"},
	"mumbai":    {"bombay"},
	"bangalore": {"bengaluru"},
	"hyderabad": {"cyberabad"},
	"chennai":   {"madras"},
	"pune":      {"pimpri", "chinchwad"},
	"kolkata":   {"calcutta"},
}

// defaultAmbiguousTerms maps terms with multiple plausible meanings to the
// candidate readings offered back to the user.
var defaultAmbiguousTerms = map[string][]string{
	"bank":   {"financial institution", "river bank"},
	"python": {"programming language", "snake"},
	"java":   {"programming language", "island"},
	"coach":  {"mentor", "vehicle"},
	"tablet": {"medicine", "electronic device"},
	"apple":  {"company", "fruit"},
}

type dictionaryFile struct {
	Synonyms  map[string][]string `yaml:"synonyms"`
	Ambiguous map[string][]string `yaml:"ambiguous"`
}

// LoadDictionary reads a YAML synonym/ambiguity dictionary. Entries merge
// over the built-in defaults, so a file only needs to list overrides.
func LoadDictionary(path string) (map[string][]string, map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read dictionary file %s: %w", path, err)
	}

	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("could not parse dictionary file %s: %w", path, err)
	}

	synonyms := make(map[string][]string, len(defaultSynonyms)+len(file.Synonyms))
	for k, v := range defaultSynonyms {
		synonyms[k] = v
	}
	for k, v := range file.Synonyms {
		synonyms[k] = v
	}

	ambiguous := make(map[string][]string, len(defaultAmbiguousTerms)+len(file.Ambiguous))
	for k, v := range defaultAmbiguousTerms {
		ambiguous[k] = v
	}
	for k, v := range file.Ambiguous {
		ambiguous[k] = v
	}

	return synonyms, ambiguous, nil
}
