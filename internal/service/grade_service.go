package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

// ErrGradeNotFound indicates the referenced grade record does not exist.
var ErrGradeNotFound = errors.New("grade record not found")

// GradeService owns the grade record lifecycle. Every write recomputes the
// derived average and classification before touching the store.
type GradeService interface {
	List(ctx context.Context, filter repository.GradeFilter) ([]dto.GradeResponse, error)
	Search(ctx context.Context, query string) ([]dto.GradeSummaryResponse, error)
	Get(ctx context.Context, id uint) (dto.GradeResponse, error)
	ListForStudent(ctx context.Context, studentID string) ([]dto.GradeResponse, error)
	Create(ctx context.Context, payload dto.GradeCreateRequest, actor ActivityActor) (dto.GradeResponse, error)
	Update(ctx context.Context, id uint, payload dto.GradeUpdateRequest, actor ActivityActor) (dto.GradeResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	DeleteBatch(ctx context.Context, payload dto.GradeBatchDeleteRequest, actor ActivityActor) (int64, error)
}

type gradeService struct {
	repo       repository.GradeRepository
	subjects   *catalog.Catalog
	classifier grading.Classifier
	validator  *validator.Validate
	activity   ActivityRecorder
	logger     zerolog.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(repo repository.GradeRepository, subjects *catalog.Catalog, classifier grading.Classifier, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) GradeService {
	return &gradeService{
		repo:       repo,
		subjects:   subjects,
		classifier: classifier,
		validator:  validator,
		activity:   activity,
		logger:     logger.With().Str("component", "grade_service").Logger(),
	}
}

func (s *gradeService) List(ctx context.Context, filter repository.GradeFilter) ([]dto.GradeResponse, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewGradeResponses(records), nil
}

func (s *gradeService) Search(ctx context.Context, query string) ([]dto.GradeSummaryResponse, error) {
	records, err := s.repo.List(ctx, repository.GradeFilter{Search: query})
	if err != nil {
		return nil, err
	}
	return dto.NewGradeSummaries(records), nil
}

func (s *gradeService) Get(ctx context.Context, id uint) (dto.GradeResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}
	return dto.NewGradeResponse(record), nil
}

func (s *gradeService) ListForStudent(ctx context.Context, studentID string) ([]dto.GradeResponse, error) {
	records, err := s.repo.List(ctx, repository.GradeFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	return dto.NewGradeResponses(records), nil
}

func (s *gradeService) Create(ctx context.Context, payload dto.GradeCreateRequest, actor ActivityActor) (dto.GradeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}
	scores, err := s.resolveScores(payload.Scores)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	record := models.GradeRecord{
		StudentID:   strings.TrimSpace(payload.StudentID),
		StudentName: strings.TrimSpace(payload.StudentName),
		ClassName:   strings.TrimSpace(payload.ClassName),
		Term:        payload.Term,
	}
	record.SetScores(scores)
	s.derive(&record)

	if err := s.repo.Create(ctx, &record); err != nil {
		return dto.GradeResponse{}, err
	}

	s.record(ctx, actor, "grade.created", record.ID, map[string]interface{}{
		"student_id": record.StudentID,
		"term":       record.Term,
		"average":    record.Average,
	})
	return dto.NewGradeResponse(record), nil
}

func (s *gradeService) Update(ctx context.Context, id uint, payload dto.GradeUpdateRequest, actor ActivityActor) (dto.GradeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}

	if payload.StudentID != nil {
		record.StudentID = strings.TrimSpace(*payload.StudentID)
	}
	if payload.StudentName != nil {
		record.StudentName = strings.TrimSpace(*payload.StudentName)
	}
	if payload.ClassName != nil {
		record.ClassName = strings.TrimSpace(*payload.ClassName)
	}
	if payload.Term != nil {
		record.Term = *payload.Term
	}
	if payload.Scores != nil {
		scores, err := s.resolveScores(payload.Scores)
		if err != nil {
			return dto.GradeResponse{}, err
		}
		record.SetScores(scores)
	}
	s.derive(&record)

	if err := s.repo.Update(ctx, &record); err != nil {
		return dto.GradeResponse{}, err
	}

	s.record(ctx, actor, "grade.updated", record.ID, map[string]interface{}{
		"student_id": record.StudentID,
		"term":       record.Term,
		"average":    record.Average,
	})
	return dto.NewGradeResponse(record), nil
}

func (s *gradeService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		return err
	}
	s.record(ctx, actor, "grade.deleted", id, nil)
	return nil
}

func (s *gradeService) DeleteBatch(ctx context.Context, payload dto.GradeBatchDeleteRequest, actor ActivityActor) (int64, error) {
	if err := s.validator.Struct(payload); err != nil {
		return 0, err
	}
	deleted, err := s.repo.DeleteBatch(ctx, payload.IDs)
	if err != nil {
		return 0, err
	}
	s.record(ctx, actor, "grade.batch_deleted", 0, map[string]interface{}{
		"requested": len(payload.IDs),
		"deleted":   deleted,
	})
	return deleted, nil
}

// resolveScores checks every referenced subject against the catalog. Codes
// entered through the UI always resolve; the check guards hand-crafted
// requests.
func (s *gradeService) resolveScores(raw map[string]*float64) (models.ScoreMap, error) {
	scores := make(models.ScoreMap, len(raw))
	for code, score := range raw {
		if _, err := s.subjects.Lookup(code); err != nil {
			return nil, err
		}
		scores[code] = score
	}
	return scores, nil
}

func (s *gradeService) derive(record *models.GradeRecord) {
	record.Average = grading.ComputeAverage(s.subjects, record.ScoreValues())
	record.Classification = s.classifier.Classify(record.Average)
}

func (s *gradeService) record(ctx context.Context, actor ActivityActor, action string, entityID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	entry := ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "grade",
		Metadata:   metadata,
	}
	if entityID > 0 {
		entry.EntityID = &entityID
	}
	s.activity.Record(ctx, entry)
}
