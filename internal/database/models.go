package database

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeResult 是一条简历处理记录，由 API 以 pending 创建，由 worker 推进状态。
type ResumeResult struct {
	ID               string         `gorm:"primaryKey;size:36"`
	UserID           string         `gorm:"index;size:64"`
	FilePath         string         `gorm:"size:1024"`
	Status           string         `gorm:"size:32;index"`
	RawText          *string        `gorm:"type:text"`
	Skills           datatypes.JSON `gorm:"type:jsonb"`
	ATSScore         *int           `gorm:"column:ats_score"`
	MissingSkills    datatypes.JSON `gorm:"type:jsonb"`
	ScoringBreakdown datatypes.JSON `gorm:"type:jsonb"` // {skillScore, experienceScore, educationScore, formatScore}
	Error            *string        `gorm:"type:text"`
	ErrorKind        *string        `gorm:"size:32"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// TableName 固定表名。
func (ResumeResult) TableName() string {
	return "resume_results"
}
