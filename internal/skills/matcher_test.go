package skills

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDictionaryIsNormalized(t *testing.T) {
	dict := NewDefaultDictionary()

	seen := make(map[string]bool)
	for _, e := range dict.Entries() {
		require.False(t, seen[e], "duplicate entry %q", e)
		seen[e] = true
	}
	assert.Equal(t, 351, dict.Len())
	assert.True(t, dict.Contains("Node.js"))
	assert.False(t, dict.Contains("cobol"))
}

func TestNewDictionaryDedupesAndLowercases(t *testing.T) {
	dict := NewDictionary([]string{"Go", "go", "  ", "Rust", "GO"})

	assert.Equal(t, []string{"go", "rust"}, dict.Entries())
}

func TestMatchScenario(t *testing.T) {
	m := NewMatcher(NewDefaultDictionary())
	text := "Experienced Python developer, built REST APIs using Django. 5+ years of experience. Bachelor's degree, 2018."

	got := m.Match(text)

	assert.Subset(t, got, []string{"python", "django", "rest"})
}

func TestMatchPunctuatedSkills(t *testing.T) {
	m := NewMatcher(NewDictionary([]string{"c++", "node.js", "ci/cd", "react native", "spring boot"}))

	got := m.Match("Wrote C++ tools; shipped Node.js services with CI/CD.\nReact\nNative apps")

	assert.Equal(t, []string{"c++", "ci/cd", "node.js", "react native"}, got)
}

func TestMatchOutputIsSortedUniqueSubset(t *testing.T) {
	dict := NewDefaultDictionary()
	m := NewMatcher(dict)
	inputs := []string{
		"Go Go golang kubernetes Kubernetes docker",
		"AWS, GCP and Azure. SQL + PostgreSQL + MySQL.",
		"Agile scrum kanban jira confluence; git github gitlab",
		"nothing relevant here at all",
	}

	for _, in := range inputs {
		got := m.Match(in)
		assert.True(t, sort.StringsAreSorted(got), "unsorted for %q", in)
		seen := make(map[string]bool)
		for _, s := range got {
			assert.False(t, seen[s], "duplicate %q for %q", s, in)
			seen[s] = true
			assert.True(t, dict.Contains(s), "%q not in dictionary", s)
		}
	}
}

func TestMatchEmptyText(t *testing.T) {
	m := NewMatcher(NewDefaultDictionary())

	assert.Empty(t, m.Match(""))
	assert.NotNil(t, m.Match("   \n\t"))
}

func TestMatchSubstringFallbackKeepsShortTokens(t *testing.T) {
	m := NewMatcher(NewDictionary([]string{"r", "java"}))

	// "r" 出现在 "are" 中，子串兜底会命中。
	got := m.Match("We are hiring")

	assert.Equal(t, []string{"r"}, got)
}

func TestTokenize(t *testing.T) {
	got := Tokenize("c++, c# and node.js (ci/cd) scikit-learn.")

	assert.Equal(t, []string{"c++", "c#", "and", "node.js", "ci/cd", "scikit-learn"}, got)
}
