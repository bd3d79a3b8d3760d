package dto

import (
	"time"

	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
)

// RankingResponse wraps a leaderboard view. Term is nil for the combined view.
type RankingResponse struct {
	Term        *int                   `json:"term,omitempty"`
	Policy      string                 `json:"policy,omitempty"`
	Entries     []grading.RankingEntry `json:"entries"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// EligibilityResponse reports the term-2 progression decision.
type EligibilityResponse struct {
	StudentID         string   `json:"student_id"`
	Eligible          bool     `json:"eligible"`
	Reason            string   `json:"reason"`
	MandatorySubjects []string `json:"mandatory_subjects"`
	Average           float64  `json:"average"`
}

// CleanupResponse reports what a maintenance pass repaired.
type CleanupResponse struct {
	grading.CleanCounts
	RecordsScanned int       `json:"records_scanned"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ImportResult summarizes a bulk CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// AverageStats aggregates the distribution of stored averages.
type AverageStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// ClassAverage is the per-class aggregate row.
type ClassAverage struct {
	ClassName string  `json:"class_name"`
	Average   float64 `json:"average"`
	Records   int     `json:"records"`
}

// SubjectAverage is the per-subject aggregate row.
type SubjectAverage struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"display_name"`
	Average     float64 `json:"average"`
	Scored      int     `json:"scored"`
}

// DashboardResponse is the aggregated overview for the landing page.
type DashboardResponse struct {
	TotalStudents              int              `json:"total_students"`
	TotalRecords               int              `json:"total_records"`
	TotalClasses               int              `json:"total_classes"`
	AverageStats               AverageStats     `json:"average_stats"`
	ClassificationDistribution map[string]int   `json:"classification_distribution"`
	ClassAverages              []ClassAverage   `json:"class_averages"`
	SubjectAverages            []SubjectAverage `json:"subject_averages"`
	GeneratedAt                time.Time        `json:"generated_at"`
	CacheHit                   bool             `json:"cache_hit"`
}

// SubjectSuggestion is one study hint derived from a subject score.
type SubjectSuggestion struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
	Hint        string  `json:"hint"`
}

// SuggestionResponse bundles the rule-based study hints and the optional
// generated advice paragraph.
type SuggestionResponse struct {
	StudentID   string              `json:"student_id"`
	Term        int                 `json:"term"`
	Suggestions []SubjectSuggestion `json:"suggestions"`
	BestSubject *SubjectSuggestion  `json:"best_subject,omitempty"`
	Advice      string              `json:"advice,omitempty"`
}

// ActivityResponse serializes an audit trail entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponses maps audit entries onto the response shape.
func NewActivityResponses(entries []models.ActivityLog) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ActivityResponse{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			ActorRole:  entry.ActorRole,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Metadata:   entry.Metadata,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return out
}
