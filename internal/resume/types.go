package resume

import (
	"strings"
	"time"

	"resumeATS/internal/errcode"
)

// Status 表示简历处理记录的生命周期状态。
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal 判断状态是否为终态。
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Breakdown 是 ATS 四项子分数。
type Breakdown struct {
	SkillScore      float64 `json:"skillScore"`
	ExperienceScore int     `json:"experienceScore"`
	EducationScore  int     `json:"educationScore"`
	FormatScore     int     `json:"formatScore"`
}

// Analysis 是评分引擎的输出。
type Analysis struct {
	ATSScore      int       `json:"atsScore"`
	MissingSkills []string  `json:"missingSkills"`
	Breakdown     Breakdown `json:"scoringBreakdown"`
}

// TerminalUpdate 描述一次终态写入。
// 写入时所有结果字段整体替换，未设置的字段会被清空。
type TerminalUpdate struct {
	Status       Status
	RawText      string
	Skills       []string
	Analysis     *Analysis
	ErrorKind    errcode.Kind
	ErrorMessage string
}

// Completed 构造成功终态。
func Completed(rawText string, skills []string, analysis Analysis) TerminalUpdate {
	return TerminalUpdate{
		Status:   StatusCompleted,
		RawText:  rawText,
		Skills:   skills,
		Analysis: &analysis,
	}
}

// Failed 构造失败终态。
func Failed(kind errcode.Kind, message string) TerminalUpdate {
	return TerminalUpdate{
		Status:       StatusFailed,
		ErrorKind:    kind,
		ErrorMessage: message,
	}
}

// Record 是存储层读出的处理记录。
type Record struct {
	ID            string
	UserID        string
	FilePath      string
	Status        Status
	RawText       *string
	Skills        []string
	ATSScore      *int
	MissingSkills []string
	Breakdown     *Breakdown
	Error         *string
	ErrorKind     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// Summary 是对外暴露的处理结果视图。
type Summary struct {
	ResumeID         string     `json:"resumeId"`
	Status           Status     `json:"status"`
	TextLength       int        `json:"textLength,omitempty"`
	WordCount        int        `json:"wordCount,omitempty"`
	SkillsCount      int        `json:"skillsCount"`
	Skills           []string   `json:"skills,omitempty"`
	ATSScore         *int       `json:"atsScore,omitempty"`
	MissingSkills    []string   `json:"missingSkills,omitempty"`
	ScoringBreakdown *Breakdown `json:"scoringBreakdown,omitempty"`
	Error            string     `json:"error,omitempty"`
	ErrorKind        string     `json:"errorKind,omitempty"`
}

// NewSummary 根据记录状态裁剪出对外结果。
func NewSummary(rec Record) Summary {
	s := Summary{ResumeID: rec.ID, Status: rec.Status}

	switch rec.Status {
	case StatusCompleted:
		text := ""
		if rec.RawText != nil {
			text = *rec.RawText
		}
		s.TextLength = len([]rune(text))
		s.WordCount = len(strings.Fields(text))
		s.Skills = rec.Skills
		if s.Skills == nil {
			s.Skills = []string{}
		}
		s.SkillsCount = len(s.Skills)
		s.ATSScore = rec.ATSScore
		s.MissingSkills = rec.MissingSkills
		s.ScoringBreakdown = rec.Breakdown
	case StatusFailed:
		s.Error = "Processing failed"
		if rec.Error != nil && *rec.Error != "" {
			s.Error = *rec.Error
		}
		if rec.ErrorKind != nil {
			s.ErrorKind = *rec.ErrorKind
		}
	}

	return s
}
