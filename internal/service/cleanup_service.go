package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

// CleanupService runs the on-demand maintenance pass over the entire grade
// store: negative-score repair, duplicate removal, name-conflict removal
// and a recompute of every derived field. The write phase is a single
// transaction; a mid-write failure leaves the store untouched. Running it
// on clean data is legal and returns all-zero counts without writing.
type CleanupService interface {
	Run(ctx context.Context, actor ActivityActor) (dto.CleanupResponse, error)
}

type cleanupService struct {
	repo       repository.GradeRepository
	subjects   *catalog.Catalog
	classifier grading.Classifier
	activity   ActivityRecorder
	logger     zerolog.Logger
	now        func() time.Time
}

// NewCleanupService constructs the maintenance service.
func NewCleanupService(repo repository.GradeRepository, subjects *catalog.Catalog, classifier grading.Classifier, activity ActivityRecorder, logger zerolog.Logger) CleanupService {
	return &cleanupService{
		repo:       repo,
		subjects:   subjects,
		classifier: classifier,
		activity:   activity,
		logger:     logger.With().Str("component", "cleanup_service").Logger(),
		now:        time.Now,
	}
}

func (s *cleanupService) Run(ctx context.Context, actor ActivityActor) (dto.CleanupResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/gradebook-api/internal/service/cleanup")
	ctx, span := tracer.Start(ctx, "cleanup.run")
	defer span.End()

	records, err := s.repo.List(ctx, repository.GradeFilter{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_failed")
		return dto.CleanupResponse{}, err
	}

	plan := grading.Clean(s.subjects, s.classifier, records)
	span.SetAttributes(
		attribute.Int("cleanup.scanned", len(records)),
		attribute.Int("cleanup.duplicates_removed", plan.Counts.DuplicatesRemoved),
		attribute.Int("cleanup.name_conflicts_removed", plan.Counts.NameConflictsRemoved),
		attribute.Int("cleanup.negative_scores_fixed", plan.Counts.NegativeScoresFixed),
	)

	if err := s.repo.ApplyCleanup(ctx, plan.DeleteIDs, plan.Updates); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply_failed")
		s.logger.Error().Err(err).Msg("cleanup rolled back")
		return dto.CleanupResponse{}, err
	}

	s.logger.Info().
		Int("scanned", len(records)).
		Int("duplicates_removed", plan.Counts.DuplicatesRemoved).
		Int("name_conflicts_removed", plan.Counts.NameConflictsRemoved).
		Int("negative_scores_fixed", plan.Counts.NegativeScoresFixed).
		Msg("cleanup completed")

	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "cleanup.completed",
			EntityType: "grade",
			Metadata: map[string]interface{}{
				"scanned":                len(records),
				"duplicates_removed":     plan.Counts.DuplicatesRemoved,
				"name_conflicts_removed": plan.Counts.NameConflictsRemoved,
				"negative_scores_fixed":  plan.Counts.NegativeScoresFixed,
			},
		})
	}

	return dto.CleanupResponse{
		CleanCounts:    plan.Counts,
		RecordsScanned: len(records),
		CompletedAt:    s.now().UTC(),
	}, nil
}
