package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

// eligibilityThreshold is the minimum mandatory-subject average required
// to advance to term 2.
const eligibilityThreshold = 4.0

// ErrNoTerm1Record indicates the student has no term-1 grades on file.
var ErrNoTerm1Record = errors.New("no term-1 record")

// EligibilityService gates progression to term 2 on the term-1 scores of
// the two configured mandatory subjects.
type EligibilityService interface {
	CanAdvanceToTerm2(ctx context.Context, studentID string) (dto.EligibilityResponse, error)
}

type eligibilityService struct {
	repo     repository.GradeRepository
	subjects [2]string
	logger   zerolog.Logger
}

// NewEligibilityService constructs the checker over the designated
// mandatory subject pair. The pair is configuration, not code: deployments
// track different subjects.
func NewEligibilityService(repo repository.GradeRepository, subjectA, subjectB string, logger zerolog.Logger) EligibilityService {
	return &eligibilityService{
		repo:     repo,
		subjects: [2]string{subjectA, subjectB},
		logger:   logger.With().Str("component", "eligibility_service").Logger(),
	}
}

func (s *eligibilityService) CanAdvanceToTerm2(ctx context.Context, studentID string) (dto.EligibilityResponse, error) {
	records, err := s.repo.List(ctx, repository.GradeFilter{StudentID: studentID, Term: 1})
	if err != nil {
		return dto.EligibilityResponse{}, err
	}

	response := dto.EligibilityResponse{
		StudentID:         studentID,
		MandatorySubjects: s.subjects[:],
	}

	if len(records) == 0 {
		response.Eligible = false
		response.Reason = "no term-1 record"
		return response, nil
	}

	// The cleaner guarantees at most one term-1 record; a not-yet-cleaned
	// duplicate falls back to the first-loaded row.
	scores := records[0].ScoreValues()
	var sum float64
	for _, code := range s.subjects {
		if score := scores[code]; score != nil && *score >= 0 {
			sum += *score
		}
	}
	average := grading.Round2(sum / 2)

	response.Average = average
	response.Eligible = average >= eligibilityThreshold
	if response.Eligible {
		response.Reason = fmt.Sprintf("mandatory-subject average %.2f meets the %.1f requirement", average, eligibilityThreshold)
	} else {
		response.Reason = fmt.Sprintf("mandatory-subject average %.2f is below the %.1f requirement", average, eligibilityThreshold)
	}
	return response, nil
}
