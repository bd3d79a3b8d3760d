package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

var (
	// ErrUnsupportedFile indicates the uploaded payload is not CSV text.
	ErrUnsupportedFile = errors.New("unsupported file type, expected CSV")
	// ErrEmptyImport indicates the file carried no data rows.
	ErrEmptyImport = errors.New("import file contains no rows")
)

// ImportService ingests bulk CSV uploads and serializes the store back out.
// Import is deliberately tolerant: unknown subject columns are ignored and
// non-numeric or negative cells become "not taken" instead of failing the
// whole file. Rows without a student id or name are skipped and counted.
type ImportService interface {
	ImportCSV(ctx context.Context, data []byte, actor ActivityActor) (dto.ImportResult, error)
	ExportCSV(ctx context.Context) ([]byte, error)
}

type importService struct {
	repo       repository.GradeRepository
	subjects   *catalog.Catalog
	classifier grading.Classifier
	sanitizer  *bluemonday.Policy
	activity   ActivityRecorder
	logger     zerolog.Logger
}

// NewImportService constructs the import/export service.
func NewImportService(repo repository.GradeRepository, subjects *catalog.Catalog, classifier grading.Classifier, activity ActivityRecorder, logger zerolog.Logger) ImportService {
	return &importService{
		repo:       repo,
		subjects:   subjects,
		classifier: classifier,
		sanitizer:  bluemonday.StrictPolicy(),
		activity:   activity,
		logger:     logger.With().Str("component", "import_service").Logger(),
	}
}

func (s *importService) ImportCSV(ctx context.Context, data []byte, actor ActivityActor) (dto.ImportResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return dto.ImportResult{}, ErrEmptyImport
	}

	mime := mimetype.Detect(data)
	if !mime.Is("text/csv") && !mime.Is("text/plain") {
		return dto.ImportResult{}, fmt.Errorf("%w: got %s", ErrUnsupportedFile, mime.String())
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return dto.ImportResult{}, ErrEmptyImport
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var result dto.ImportResult
	var records []models.GradeRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed line, not a malformed file.
			result.Skipped++
			continue
		}

		record, ok := s.rowToRecord(columns, row)
		if !ok {
			result.Skipped++
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 && result.Skipped == 0 {
		return dto.ImportResult{}, ErrEmptyImport
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return dto.ImportResult{}, err
	}
	result.Imported = len(records)

	s.logger.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("csv import completed")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "grades.imported",
			EntityType: "grade",
			Metadata: map[string]interface{}{
				"imported": result.Imported,
				"skipped":  result.Skipped,
			},
		})
	}
	return result, nil
}

func (s *importService) rowToRecord(columns map[string]int, row []string) (models.GradeRecord, bool) {
	studentID := s.cleanCell(columns, row, "student_id")
	studentName := s.cleanCell(columns, row, "student_name")
	if studentID == "" || studentName == "" {
		return models.GradeRecord{}, false
	}

	record := models.GradeRecord{
		StudentID:   studentID,
		StudentName: studentName,
		ClassName:   s.cleanCell(columns, row, "class_name"),
		Term:        1,
	}
	if term, err := strconv.Atoi(s.cleanCell(columns, row, "term")); err == nil && term >= 1 {
		record.Term = term
	}

	scores := make(models.ScoreMap)
	for _, subject := range s.subjects.Subjects() {
		index, ok := columns[subject.Code]
		if !ok || index >= len(row) {
			continue
		}
		scores[subject.Code] = parseScore(row[index])
	}
	record.SetScores(scores)
	record.Average = grading.ComputeAverage(s.subjects, scores)
	record.Classification = s.classifier.Classify(record.Average)
	return record, true
}

func (s *importService) cleanCell(columns map[string]int, row []string, name string) string {
	index, ok := columns[name]
	if !ok || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(s.sanitizer.Sanitize(row[index]))
}

// parseScore coerces a CSV cell into an optional score. Anything that is
// not a number in [0, MaxScore] becomes "not taken" rather than an error.
func parseScore(cell string) *float64 {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || value < 0 || value > grading.MaxScore {
		return nil
	}
	return &value
}

func (s *importService) ExportCSV(ctx context.Context) ([]byte, error) {
	records, err := s.repo.List(ctx, repository.GradeFilter{})
	if err != nil {
		return nil, err
	}

	codes := s.subjects.Codes()
	header := append([]string{"id", "student_id", "student_name", "class_name", "term"}, codes...)
	header = append(header, "average", "classification")

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, record := range records {
		row := []string{
			strconv.FormatUint(uint64(record.ID), 10),
			record.StudentID,
			record.StudentName,
			record.ClassName,
			strconv.Itoa(record.Term),
		}
		scores := record.ScoreValues()
		for _, code := range codes {
			if score := scores[code]; score != nil {
				row = append(row, strconv.FormatFloat(*score, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, strconv.FormatFloat(record.Average, 'f', 2, 64), record.Classification)
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
