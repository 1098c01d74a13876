package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSummaryCompleted(t *testing.T) {
	text := "Go developer\nBuilt services"
	score := 62
	rec := Record{
		ID:            "r-1",
		Status:        StatusCompleted,
		RawText:       &text,
		Skills:        []string{"go"},
		ATSScore:      &score,
		MissingSkills: []string{"python"},
		Breakdown:     &Breakdown{SkillScore: 0.8, ExperienceScore: 2},
	}

	s := NewSummary(rec)

	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, 27, s.TextLength)
	assert.Equal(t, 4, s.WordCount)
	assert.Equal(t, 1, s.SkillsCount)
	assert.Equal(t, &score, s.ATSScore)
	assert.Empty(t, s.Error)
}

func TestNewSummaryFailed(t *testing.T) {
	msg := "Resume file not found"
	kind := "file_not_found"
	s := NewSummary(Record{ID: "r-2", Status: StatusFailed, Error: &msg, ErrorKind: &kind})

	assert.Equal(t, StatusFailed, s.Status)
	assert.Equal(t, msg, s.Error)
	assert.Equal(t, kind, s.ErrorKind)
	assert.Nil(t, s.ATSScore)
	assert.Nil(t, s.ScoringBreakdown)
}

func TestNewSummaryInFlight(t *testing.T) {
	s := NewSummary(Record{ID: "r-3", Status: StatusProcessing})

	assert.Equal(t, StatusProcessing, s.Status)
	assert.Zero(t, s.SkillsCount)
	assert.Nil(t, s.Skills)
	assert.Empty(t, s.Error)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
