package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeATS/internal/resume"
)

// ErrAlreadyTerminal 表示记录已处于终态，processing 写入被拒绝。
var ErrAlreadyTerminal = errors.New("resume result already in terminal state")

// StatusStore 读写 resume_results 表。
type StatusStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStatusStore 创建状态存储。
func NewStatusStore(db *gorm.DB) *StatusStore {
	return &StatusStore{db: db, now: time.Now}
}

// CreatePending 插入一条 pending 记录。
func (s *StatusStore) CreatePending(ctx context.Context, id, userID, filePath string) error {
	rec := ResumeResult{
		ID:       id,
		UserID:   userID,
		FilePath: filePath,
		Status:   string(resume.StatusPending),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create resume result: %w", err)
	}
	return nil
}

// SetProcessing 仅当记录处于 pending/processing 时写入 processing。
// 记录不存在返回 gorm.ErrRecordNotFound，已是终态返回 ErrAlreadyTerminal。
func (s *StatusStore) SetProcessing(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&ResumeResult{}).
		Where("id = ? AND status IN ?", id, []string{string(resume.StatusPending), string(resume.StatusProcessing)}).
		Updates(map[string]any{
			"status":     string(resume.StatusProcessing),
			"updated_at": s.now(),
		})
	if res.Error != nil {
		return fmt.Errorf("set processing: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&ResumeResult{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check resume result: %w", err)
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrAlreadyTerminal
}

// SetTerminal 以一次 UPDATE 写入终态，并整体替换所有结果字段。
func (s *StatusStore) SetTerminal(ctx context.Context, id string, u resume.TerminalUpdate) error {
	if !u.Status.Terminal() {
		return fmt.Errorf("set terminal: %q is not a terminal status", u.Status)
	}

	now := s.now()
	values, err := terminalColumns(u, now)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&ResumeResult{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("set terminal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ResetPending 清空结果字段并把记录放回 pending，供人工重新入队使用。
func (s *StatusStore) ResetPending(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&ResumeResult{}).Where("id = ?", id).Updates(map[string]any{
		"status":            string(resume.StatusPending),
		"raw_text":          nil,
		"skills":            nil,
		"ats_score":         nil,
		"missing_skills":    nil,
		"scoring_breakdown": nil,
		"error":             nil,
		"error_kind":        nil,
		"completed_at":      nil,
		"updated_at":        s.now(),
	})
	if res.Error != nil {
		return fmt.Errorf("reset pending: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Get 读取一条记录。
func (s *StatusStore) Get(ctx context.Context, id string) (*resume.Record, error) {
	var row ResumeResult
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return toRecord(row)
}

func terminalColumns(u resume.TerminalUpdate, now time.Time) (map[string]any, error) {
	values := map[string]any{
		"status":            string(u.Status),
		"raw_text":          nil,
		"skills":            nil,
		"ats_score":         nil,
		"missing_skills":    nil,
		"scoring_breakdown": nil,
		"error":             nil,
		"error_kind":        nil,
		"completed_at":      now,
		"updated_at":        now,
	}

	switch u.Status {
	case resume.StatusCompleted:
		values["raw_text"] = u.RawText

		skills := u.Skills
		if skills == nil {
			skills = []string{}
		}
		encoded, err := marshalJSON(skills)
		if err != nil {
			return nil, err
		}
		values["skills"] = encoded

		if u.Analysis != nil {
			values["ats_score"] = u.Analysis.ATSScore

			missing := u.Analysis.MissingSkills
			if missing == nil {
				missing = []string{}
			}
			if values["missing_skills"], err = marshalJSON(missing); err != nil {
				return nil, err
			}
			if values["scoring_breakdown"], err = marshalJSON(u.Analysis.Breakdown); err != nil {
				return nil, err
			}
		}
	case resume.StatusFailed:
		msg := u.ErrorMessage
		if msg == "" {
			msg = "Processing failed"
		}
		values["error"] = msg
		values["error_kind"] = string(u.ErrorKind)
	}

	return values, nil
}

func marshalJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result column: %w", err)
	}
	return datatypes.JSON(b), nil
}

func toRecord(row ResumeResult) (*resume.Record, error) {
	rec := &resume.Record{
		ID:          row.ID,
		UserID:      row.UserID,
		FilePath:    row.FilePath,
		Status:      resume.Status(row.Status),
		RawText:     row.RawText,
		ATSScore:    row.ATSScore,
		Error:       row.Error,
		ErrorKind:   row.ErrorKind,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		CompletedAt: row.CompletedAt,
	}

	if len(row.Skills) > 0 {
		if err := json.Unmarshal(row.Skills, &rec.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}
	if len(row.MissingSkills) > 0 {
		if err := json.Unmarshal(row.MissingSkills, &rec.MissingSkills); err != nil {
			return nil, fmt.Errorf("decode missing skills: %w", err)
		}
	}
	if len(row.ScoringBreakdown) > 0 {
		var b resume.Breakdown
		if err := json.Unmarshal(row.ScoringBreakdown, &b); err != nil {
			return nil, fmt.Errorf("decode scoring breakdown: %w", err)
		}
		rec.Breakdown = &b
	}
	return rec, nil
}
