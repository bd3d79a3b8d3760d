package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/pkg/advisor"
)

// weakScoreThreshold marks a subject as needing revision.
const weakScoreThreshold = 5.0

// SuggestionService derives study hints from a student's term record.
// The hints are rule-based; when an advisor is configured an additional
// generated paragraph is attached. Advisor failures degrade silently to
// the rule-based output.
type SuggestionService interface {
	ForStudent(ctx context.Context, studentID string, term int) (dto.SuggestionResponse, error)
}

type suggestionService struct {
	repo     repository.GradeRepository
	subjects *catalog.Catalog
	advisor  advisor.Advisor
	logger   zerolog.Logger
}

// NewSuggestionService constructs the service. adv may be nil.
func NewSuggestionService(repo repository.GradeRepository, subjects *catalog.Catalog, adv advisor.Advisor, logger zerolog.Logger) SuggestionService {
	return &suggestionService{
		repo:     repo,
		subjects: subjects,
		advisor:  adv,
		logger:   logger.With().Str("component", "suggestion_service").Logger(),
	}
}

func (s *suggestionService) ForStudent(ctx context.Context, studentID string, term int) (dto.SuggestionResponse, error) {
	records, err := s.repo.List(ctx, repository.GradeFilter{StudentID: studentID, Term: term})
	if err != nil {
		return dto.SuggestionResponse{}, err
	}
	if len(records) == 0 {
		return dto.SuggestionResponse{}, ErrGradeNotFound
	}
	record := records[0]

	response := dto.SuggestionResponse{
		StudentID:   studentID,
		Term:        term,
		Suggestions: []dto.SubjectSuggestion{},
	}

	type scored struct {
		subject catalog.SubjectDefinition
		score   float64
	}
	var taken []scored
	scores := record.ScoreValues()
	for _, subject := range s.subjects.Subjects() {
		if score := scores[subject.Code]; score != nil && *score >= 0 {
			taken = append(taken, scored{subject: subject, score: *score})
		}
	}
	if len(taken) == 0 {
		return response, nil
	}

	for _, item := range taken {
		if item.score < weakScoreThreshold {
			response.Suggestions = append(response.Suggestions, dto.SubjectSuggestion{
				Code:        item.subject.Code,
				DisplayName: item.subject.DisplayName,
				Score:       item.score,
				Hint:        fmt.Sprintf("Score %.1f in %s is below %.1f; schedule extra revision before the next exam.", item.score, item.subject.DisplayName, weakScoreThreshold),
			})
		}
	}

	sort.SliceStable(taken, func(i, j int) bool { return taken[i].score > taken[j].score })
	best := taken[0]
	response.BestSubject = &dto.SubjectSuggestion{
		Code:        best.subject.Code,
		DisplayName: best.subject.DisplayName,
		Score:       best.score,
		Hint:        fmt.Sprintf("%s is your strongest subject this term; keep up the momentum.", best.subject.DisplayName),
	}

	if s.advisor != nil {
		response.Advice = s.generateAdvice(ctx, record.StudentName, term, record.Average, record.Classification, response)
	}
	return response, nil
}

func (s *suggestionService) generateAdvice(ctx context.Context, studentName string, term int, average float64, classification string, response dto.SuggestionResponse) string {
	input := advisor.AdviceInput{
		StudentName:    studentName,
		Term:           term,
		Average:        average,
		Classification: classification,
	}
	for _, suggestion := range response.Suggestions {
		input.WeakSubjects = append(input.WeakSubjects, advisor.SubjectScore{DisplayName: suggestion.DisplayName, Score: suggestion.Score})
	}
	if response.BestSubject != nil {
		input.StrongSubjects = append(input.StrongSubjects, advisor.SubjectScore{DisplayName: response.BestSubject.DisplayName, Score: response.BestSubject.Score})
	}

	advice, err := s.advisor.Advise(ctx, input)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", response.StudentID).Msg("advisor unavailable, returning rule-based hints only")
		return ""
	}
	return advice
}
