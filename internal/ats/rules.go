package ats

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 各子项满分。
const (
	MaxSkillScore      = 40
	MaxExperienceScore = 25
	MaxEducationScore  = 15
	MaxFormatScore     = 20
)

// skillPool 限制技能分母，避免因为词表过大而压低分数。
const skillPool = 50

var (
	experienceKeywords = []string{"experience", "work history", "employment", "professional background"}

	yearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+\+?\s*years?`),
		regexp.MustCompile(`years?\s*of\s*experience`),
		regexp.MustCompile(`\d{4}\s*-\s*\d{4}`),
		regexp.MustCompile(`\d{4}\s*-\s*present`),
	}

	actionVerbs = []string{
		"developed", "built", "created", "designed", "implemented",
		"managed", "led", "coordinated", "achieved", "improved",
		"optimized", "deployed", "maintained", "collaborated",
		"engineered", "architected", "delivered", "launched",
	}

	degreeKeywords = []string{
		"bachelor", "master", "phd", "doctorate", "b.tech", "b.e.",
		"m.tech", "m.s.", "mba", "degree", "university", "college",
		"graduate", "undergraduate", "diploma",
	}

	graduationYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	sectionHeadings = []string{"skills", "experience", "education", "projects", "summary", "objective"}

	bulletMarkers = []string{"-", "•", "∙", "▪", "*"}
)

// CommonSkills 是计算 missingSkills 的参考列表，顺序即输出顺序。
var CommonSkills = []string{
	"python", "java", "javascript", "react", "node.js",
	"aws", "docker", "git", "sql", "agile",
}

// skillScore = matched / min(dictSize, 50) * 40，不提前取整。
func skillScore(matched, dictSize int) float64 {
	pool := dictSize
	if pool > skillPool {
		pool = skillPool
	}
	if pool <= 0 {
		return 0
	}
	return capFloat(float64(matched)/float64(pool)*MaxSkillScore, MaxSkillScore)
}

func experienceScore(lower string) int {
	score := 0
	if containsAny(lower, experienceKeywords) {
		score += 5
	}

	families := 0
	for _, re := range yearPatterns {
		if re.MatchString(lower) {
			families++
		}
	}
	score += capInt(families*2, 8)
	score += capInt(countContained(lower, actionVerbs)*2, 12)

	return capInt(score, MaxExperienceScore)
}

func educationScore(raw, lower string) int {
	score := capInt(countContained(lower, degreeKeywords)*3, 10)
	if graduationYear.MatchString(raw) {
		score += 5
	}
	return capInt(score, MaxEducationScore)
}

func formatScore(raw, lower string) int {
	score := capInt(countContained(lower, sectionHeadings)*2, 8)

	lines := strings.Split(raw, "\n")

	bullets := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, marker := range bulletMarkers {
			if strings.HasPrefix(trimmed, marker) {
				bullets++
				break
			}
		}
	}
	score += capInt(bullets/2, 6)

	if conciseParagraphs(raw) {
		score += 3
	}
	if longestBlankRun(lines) <= 4 {
		score += 3
	}

	return capInt(score, MaxFormatScore)
}

// conciseParagraphs 判断至少 70% 的非空段落短于 300 个字符。
func conciseParagraphs(raw string) bool {
	total, short := 0, 0
	for _, p := range strings.Split(raw, "\n\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		total++
		if utf8.RuneCountInString(p) < 300 {
			short++
		}
	}
	if total == 0 {
		return false
	}
	return float64(short)/float64(total) >= 0.7
}

func longestBlankRun(lines []string) int {
	run, longest := 0, 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func countContained(s string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			n++
		}
	}
	return n
}

func capInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func capFloat(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
