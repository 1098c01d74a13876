package skills

import (
	"regexp"
	"sort"
	"strings"
)

// tokenPattern 把 "c++"、"c#"、"node.js"、"ci/cd"、"scikit-learn" 视为一个词。
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:[./\-][\p{L}\p{N}]+)*[+#]*`)

// Matcher 在清洗后的文本中检测词表中的技能。
type Matcher struct {
	dict *Dictionary
}

// NewMatcher 绑定一个只读词表。
func NewMatcher(dict *Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

// Dictionary 返回匹配器使用的词表。
func (m *Matcher) Dictionary() *Dictionary { return m.dict }

// Match 返回文本中出现的技能，去重并按字典序升序排列。
//
// 词条命中条件：等于某个 1/2/3-gram 短语，或是小写全文的子串。
// 子串兜底会让短词条（如 "r"）命中更长的单词，这是已知的精度取舍。
func (m *Matcher) Match(text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return []string{}
	}

	phrases := ngrams(Tokenize(lower), 3)

	found := make([]string, 0, 16)
	for _, skill := range m.dict.entries {
		if _, ok := phrases[skill]; ok || strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

// Tokenize 把小写文本切分为词。
func Tokenize(lower string) []string {
	return tokenPattern.FindAllString(lower, -1)
}

func ngrams(tokens []string, maxN int) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			set[strings.Join(tokens[i:i+n], " ")] = struct{}{}
		}
	}
	return set
}
