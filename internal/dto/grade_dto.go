package dto

import (
	"time"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// GradeCreateRequest captures a manual grade entry. Scores are keyed by
// catalog subject code; a missing key or explicit null means "not taken".
type GradeCreateRequest struct {
	StudentID   string              `json:"student_id" validate:"required,max=32"`
	StudentName string              `json:"student_name" validate:"required,max=255"`
	ClassName   string              `json:"class_name" validate:"omitempty,max=64"`
	Term        int                 `json:"term" validate:"required,min=1"`
	Scores      map[string]*float64 `json:"scores" validate:"omitempty,dive,omitempty,gte=0,lte=10"`
}

// GradeUpdateRequest captures a partial edit. Nil fields stay unchanged;
// a non-nil Scores map replaces the stored map wholesale.
type GradeUpdateRequest struct {
	StudentID   *string             `json:"student_id" validate:"omitempty,min=1,max=32"`
	StudentName *string             `json:"student_name" validate:"omitempty,min=1,max=255"`
	ClassName   *string             `json:"class_name" validate:"omitempty,max=64"`
	Term        *int                `json:"term" validate:"omitempty,min=1"`
	Scores      map[string]*float64 `json:"scores" validate:"omitempty,dive,omitempty,gte=0,lte=10"`
}

// GradeBatchDeleteRequest lists record ids to delete in one transaction.
type GradeBatchDeleteRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// GradeResponse serializes a grade record.
type GradeResponse struct {
	ID             uint                `json:"id"`
	StudentID      string              `json:"student_id"`
	StudentName    string              `json:"student_name"`
	ClassName      string              `json:"class_name"`
	Term           int                 `json:"term"`
	Scores         map[string]*float64 `json:"scores"`
	Average        float64             `json:"average"`
	Classification string              `json:"classification"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// NewGradeResponse maps a model onto the response shape.
func NewGradeResponse(record models.GradeRecord) GradeResponse {
	return GradeResponse{
		ID:             record.ID,
		StudentID:      record.StudentID,
		StudentName:    record.StudentName,
		ClassName:      record.ClassName,
		Term:           record.Term,
		Scores:         record.ScoreValues(),
		Average:        record.Average,
		Classification: record.Classification,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

// NewGradeResponses maps a slice of records.
func NewGradeResponses(records []models.GradeRecord) []GradeResponse {
	out := make([]GradeResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewGradeResponse(record))
	}
	return out
}

// GradeSummaryResponse is the reduced projection students see when
// searching other students.
type GradeSummaryResponse struct {
	StudentID      string  `json:"student_id"`
	StudentName    string  `json:"student_name"`
	ClassName      string  `json:"class_name"`
	Term           int     `json:"term"`
	Average        float64 `json:"average"`
	Classification string  `json:"classification"`
}

// NewGradeSummaries maps records onto the reduced projection.
func NewGradeSummaries(records []models.GradeRecord) []GradeSummaryResponse {
	out := make([]GradeSummaryResponse, 0, len(records))
	for _, record := range records {
		out = append(out, GradeSummaryResponse{
			StudentID:      record.StudentID,
			StudentName:    record.StudentName,
			ClassName:      record.ClassName,
			Term:           record.Term,
			Average:        record.Average,
			Classification: record.Classification,
		})
	}
	return out
}
