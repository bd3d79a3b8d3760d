package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

// RankingService builds leaderboards from the current record set. Entries
// are transient: recomputed on every request, never persisted.
type RankingService interface {
	RankByTerm(ctx context.Context, term int) (dto.RankingResponse, error)
	RankCombined(ctx context.Context) (dto.RankingResponse, error)
}

type rankingService struct {
	repo       repository.GradeRepository
	classifier grading.Classifier
	policy     grading.CombinedPolicy
	logger     zerolog.Logger
	now        func() time.Time
}

// NewRankingService constructs the ranking service.
func NewRankingService(repo repository.GradeRepository, classifier grading.Classifier, policy grading.CombinedPolicy, logger zerolog.Logger) RankingService {
	if policy == "" {
		policy = grading.PolicyStrict
	}
	return &rankingService{
		repo:       repo,
		classifier: classifier,
		policy:     policy,
		logger:     logger.With().Str("component", "ranking_service").Logger(),
		now:        time.Now,
	}
}

func (s *rankingService) RankByTerm(ctx context.Context, term int) (dto.RankingResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/gradebook-api/internal/service/ranking")
	ctx, span := tracer.Start(ctx, "ranking.term")
	span.SetAttributes(attribute.Int("ranking.term", term))
	defer span.End()

	records, err := s.repo.List(ctx, repository.GradeFilter{Term: term})
	if err != nil {
		span.RecordError(err)
		return dto.RankingResponse{}, err
	}

	entries := grading.RankByTerm(records, term)
	span.SetAttributes(attribute.Int("ranking.entries", len(entries)))

	return dto.RankingResponse{
		Term:        &term,
		Entries:     entries,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *rankingService) RankCombined(ctx context.Context) (dto.RankingResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/gradebook-api/internal/service/ranking")
	ctx, span := tracer.Start(ctx, "ranking.combined")
	span.SetAttributes(attribute.String("ranking.policy", string(s.policy)))
	defer span.End()

	records, err := s.repo.List(ctx, repository.GradeFilter{})
	if err != nil {
		span.RecordError(err)
		return dto.RankingResponse{}, err
	}

	entries := grading.RankCombined(records, s.policy, s.classifier)
	span.SetAttributes(attribute.Int("ranking.entries", len(entries)))

	return dto.RankingResponse{
		Policy:      string(s.policy),
		Entries:     entries,
		GeneratedAt: s.now().UTC(),
	}, nil
}
