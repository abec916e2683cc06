package ethics

// Package ethics flags exclusionary or stereotyping language in queries and
// supplies the inclusive canned responses returned instead of search results.

import "strings"

const (
	BiasGenderExclusionary = "gender_exclusionary"
	BiasStereotyping       = "stereotyping"
	BiasAge                = "age_exclusionary"
)

// Checked in order so overlapping phrasings classify deterministically.
var biasPatterns = []struct {
	biasType string
	patterns []string
}{
	{BiasGenderExclusionary, []string{
		"only women", "women only", "female-only", "female only", "males only",
		"only men", "men only", "male only", "male-dominated", "female-dominated",
	}},
	{BiasStereotyping, []string{
		"women are better at", "men are better at", "typical female job",
		"typical male job", "women should", "men should",
	}},
	{BiasAge, []string{
		"young people only", "only young people", "no old people", "under 30 only",
	}},
}

type Analysis struct {
	Biased   bool
	BiasType string
	Response string
}

// Analyze checks the text against the known bias patterns. The returned
// Response is only set when Biased is true.
func Analyze(text string) Analysis {
	lower := strings.ToLower(text)
	for _, group := range biasPatterns {
		for _, pattern := range group.patterns {
			if strings.Contains(lower, pattern) {
				return Analysis{Biased: true, BiasType: group.biasType, Response: responseFor(group.biasType)}
			}
		}
	}
	return Analysis{}
}

func responseFor(biasType string) string {
	switch biasType {
	case BiasGenderExclusionary:
		return "Our platform promotes equal opportunities for all genders. " +
			"I can help you find roles matching your skills rather than " +
			"focusing on gender-specific positions. What skills or experience " +
			"would you like to search for?"
	case BiasStereotyping:
		return "I'd like to focus on individual skills and qualifications rather " +
			"than generalizations. Could you tell me more about the specific " +
			"job requirements or qualifications you're interested in?"
	case BiasAge:
		return "I don't filter opportunities by age. Tell me about the skills or " +
			"experience you'd like to search for and I'll find matching roles."
	default:
		return "I'm committed to providing inclusive and unbiased information. " +
			"How can I help you find opportunities based on skills and interests?"
	}
}
