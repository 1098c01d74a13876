package ats

import (
	"log/slog"
	"math"
	"strings"

	"resumeATS/internal/resume"
)

// Engine 是纯规则的 ATS 评分器，无外部状态，可并发使用。
type Engine struct {
	dictSize int
	logger   *slog.Logger
}

// NewEngine 创建评分器，dictSize 为技能词表大小。
func NewEngine(dictSize int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{dictSize: dictSize, logger: logger}
}

// Score 计算总分、子项分与缺失的常见技能。
// 空文本直接返回全零结果。
func (e *Engine) Score(text string, skills []string) resume.Analysis {
	if strings.TrimSpace(text) == "" {
		return resume.Analysis{MissingSkills: []string{}}
	}

	lower := strings.ToLower(text)

	skill := skillScore(len(skills), e.dictSize)
	experience := experienceScore(lower)
	education := educationScore(text, lower)
	format := formatScore(text, lower)

	total := skill + float64(experience+education+format)
	// 与银行家舍入保持一致：x.5 舍入到偶数。
	score := int(math.RoundToEven(total))
	score = max(0, min(100, score))

	analysis := resume.Analysis{
		ATSScore:      score,
		MissingSkills: MissingSkills(skills),
		Breakdown: resume.Breakdown{
			SkillScore:      round2(skill),
			ExperienceScore: experience,
			EducationScore:  education,
			FormatScore:     format,
		},
	}

	e.logger.Debug("ats score calculated",
		slog.Int("ats_score", score),
		slog.Float64("skill_score", analysis.Breakdown.SkillScore),
		slog.Int("experience_score", experience),
		slog.Int("education_score", education),
		slog.Int("format_score", format),
	)
	return analysis
}

// MissingSkills 返回 CommonSkills 中未被检测到的技能，保持参考列表顺序。
func MissingSkills(skills []string) []string {
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[s] = struct{}{}
	}
	missing := make([]string, 0, len(CommonSkills))
	for _, s := range CommonSkills {
		if _, ok := have[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// round2 保留两位小数，与总分一样采用银行家舍入。
func round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}
