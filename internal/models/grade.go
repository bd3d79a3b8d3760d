package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreMap holds per-subject scores keyed by catalog subject code.
// A nil value means the subject was not taken.
type ScoreMap map[string]*float64

// Clone returns a deep copy of the map so callers can mutate safely.
func (m ScoreMap) Clone() ScoreMap {
	if m == nil {
		return nil
	}
	out := make(ScoreMap, len(m))
	for code, score := range m {
		if score == nil {
			out[code] = nil
			continue
		}
		v := *score
		out[code] = &v
	}
	return out
}

// GradeRecord stores one student's exam results for a single term.
// Average and Classification are derived fields recomputed on every write;
// they are never edited directly. Uniqueness of (StudentID, Term) is
// maintained by the cleanup pass rather than a database constraint.
type GradeRecord struct {
	ID             uint                         `gorm:"primaryKey" json:"id"`
	StudentID      string                       `gorm:"size:32;index;not null" json:"student_id"`
	StudentName    string                       `gorm:"size:255;not null" json:"student_name"`
	ClassName      string                       `gorm:"size:64" json:"class_name"`
	Term           int                          `gorm:"index;not null" json:"term"`
	Scores         datatypes.JSONType[ScoreMap] `json:"scores"`
	Average        float64                      `json:"average"`
	Classification string                       `gorm:"size:32" json:"classification"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

// ScoreValues unwraps the JSON column into a ScoreMap.
func (r GradeRecord) ScoreValues() ScoreMap {
	return r.Scores.Data()
}

// SetScores replaces the stored score map.
func (r *GradeRecord) SetScores(scores ScoreMap) {
	r.Scores = datatypes.NewJSONType(scores)
}
