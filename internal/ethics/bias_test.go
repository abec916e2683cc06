package ethics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeDetectsGenderExclusion(t *testing.T) {
	analysis := Analyze("Looking for women only coding jobs")

	assert.True(t, analysis.Biased)
	assert.Equal(t, BiasGenderExclusionary, analysis.BiasType)
	assert.Contains(t, analysis.Response, "equal opportunities")
}

func TestAnalyzeDetectsStereotyping(t *testing.T) {
	analysis := Analyze("Women are better at communication roles, right?")

	assert.True(t, analysis.Biased)
	assert.Equal(t, BiasStereotyping, analysis.BiasType)
	assert.Contains(t, analysis.Response, "skills and qualifications")
}

func TestAnalyzeDetectsAgeExclusion(t *testing.T) {
	analysis := Analyze("We want young people only for this startup")

	assert.True(t, analysis.Biased)
	assert.Equal(t, BiasAge, analysis.BiasType)
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	assert.True(t, Analyze("FEMALE-ONLY positions please").Biased)
}

func TestAnalyzeCleanQuery(t *testing.T) {
	analysis := Analyze("software engineering jobs in Mumbai")

	assert.False(t, analysis.Biased)
	assert.Empty(t, analysis.BiasType)
	assert.Empty(t, analysis.Response)
}

func TestAnalyzeOrderIsDeterministic(t *testing.T) {
	// Matches both a gender pattern and a stereotyping pattern; gender
	// patterns are checked first.
	analysis := Analyze("only women should apply, women should lead")

	assert.True(t, analysis.Biased)
	assert.Equal(t, BiasGenderExclusionary, analysis.BiasType)
}
