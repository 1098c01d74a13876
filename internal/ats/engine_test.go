package ats

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeATS/internal/resume"
)

const sampleText = "Experienced Python developer, built REST APIs using Django. 5+ years of experience. Bachelor's degree, 2018."

func TestScoreSampleResume(t *testing.T) {
	e := NewEngine(351, nil)

	got := e.Score(sampleText, []string{"django", "python", "rest"})

	assert.Equal(t, resume.Breakdown{
		SkillScore:      2.4,
		ExperienceScore: 11,
		EducationScore:  11,
		FormatScore:     8,
	}, got.Breakdown)
	assert.Equal(t, 32, got.ATSScore)
	assert.Equal(t, []string{"java", "javascript", "react", "node.js", "aws", "docker", "git", "sql", "agile"}, got.MissingSkills)
}

func TestScoreEmptyText(t *testing.T) {
	e := NewEngine(351, nil)

	for _, text := range []string{"", "   \n\t "} {
		got := e.Score(text, []string{"python"})
		assert.Equal(t, 0, got.ATSScore)
		assert.Equal(t, resume.Breakdown{}, got.Breakdown)
		require.NotNil(t, got.MissingSkills)
		assert.Empty(t, got.MissingSkills)
	}
}

func TestScoreIsBounded(t *testing.T) {
	skills := make([]string, 80)
	for i := range skills {
		skills[i] = fmt.Sprintf("skill-%d", i)
	}

	var sb strings.Builder
	sb.WriteString("Summary\nObjective\nSkills\nExperience\nEducation\nProjects\n\n")
	sb.WriteString("10 years of experience, 2012 - 2018, 2018 - present, work history, employment\n\n")
	for _, v := range actionVerbs {
		sb.WriteString("- " + v + " things\n")
	}
	sb.WriteString("\n")
	for _, d := range degreeKeywords {
		sb.WriteString("* " + d + " 2010\n")
	}

	got := NewEngine(351, nil).Score(sb.String(), skills)

	assert.Equal(t, float64(MaxSkillScore), got.Breakdown.SkillScore)
	assert.Equal(t, MaxExperienceScore, got.Breakdown.ExperienceScore)
	assert.Equal(t, MaxEducationScore, got.Breakdown.EducationScore)
	assert.Equal(t, MaxFormatScore, got.Breakdown.FormatScore)
	assert.Equal(t, 100, got.ATSScore)
}

func TestScoreRoundsHalfToEven(t *testing.T) {
	// 16 个词条时每个技能 2.5 分；"zzz" 只拿到段落与空行两项格式分。
	got := NewEngine(16, nil).Score("zzz", []string{"go"})

	assert.Equal(t, 2.5, got.Breakdown.SkillScore)
	assert.Equal(t, 6, got.Breakdown.FormatScore)
	assert.Equal(t, 8, got.ATSScore)
}

func TestSkillScoreRoundedToTwoDecimals(t *testing.T) {
	got := NewEngine(30, nil).Score("zzz", []string{"go"})

	assert.Equal(t, 1.33, got.Breakdown.SkillScore)
	assert.Equal(t, 7, got.ATSScore)
}

func TestRound2HalfToEven(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0.125, want: 0.12},
		{in: 0.375, want: 0.38},
		{in: 2.5, want: 2.5},
		{in: 40.0 / 30, want: 1.33},
		{in: 0, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}

func TestMissingSkillsKeepsReferenceOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"java", "javascript", "react", "node.js", "aws", "git", "sql", "agile"},
		MissingSkills([]string{"docker", "python", "kubernetes"}),
	)
	assert.Empty(t, MissingSkills(CommonSkills))
	assert.Equal(t, CommonSkills, MissingSkills(nil))
}

func TestFormatScoreRules(t *testing.T) {
	long := strings.Repeat("x", 300)

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "bullets counted in pairs", text: "- a\n- b\n• c\n* d\n▪ e", want: 2 + 3 + 3},
		{name: "three of four paragraphs short", text: "a\n\nb\n\nc\n\n" + long, want: 3 + 3},
		{name: "two of three paragraphs short", text: "a\n\nb\n\n" + long, want: 3},
		{name: "long blank run", text: "a\n\n\n\n\n\nb", want: 3},
		{name: "four blank lines allowed", text: "a\n\n\n\n\nb", want: 3 + 3},
		{name: "headings capped", text: "skills experience education projects summary objective", want: 8 + 3 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatScore(tt.text, strings.ToLower(tt.text)))
		})
	}
}

func TestExperienceScoreRules(t *testing.T) {
	assert.Equal(t, 0, experienceScore("nothing relevant here"))
	assert.Equal(t, 5, experienceScore("professional background"))
	assert.Equal(t, 2+2, experienceScore("2015 - 2019 and 2019 - present"))
	assert.Equal(t, 12, experienceScore("developed built created designed implemented managed led"))
}

func TestEducationScoreRules(t *testing.T) {
	assert.Equal(t, 0, educationScore("no school", "no school"))
	assert.Equal(t, 5, educationScore("class of 1999", "class of 1999"))
	assert.Equal(t, 0, educationScore("id 120188", "id 120188"))
	assert.Equal(t, 10, educationScore("MBA, University", "mba, university, degree, college"))
}
