package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// GradeFilter narrows List results. Zero values mean "no filter".
type GradeFilter struct {
	Search         string
	ClassName      string
	Classification string
	Term           int
	StudentID      string
}

// GradeRepository provides access to grade records.
type GradeRepository interface {
	List(ctx context.Context, filter GradeFilter) ([]models.GradeRecord, error)
	GetByID(ctx context.Context, id uint) (models.GradeRecord, error)
	Create(ctx context.Context, record *models.GradeRecord) error
	CreateBatch(ctx context.Context, records []models.GradeRecord) error
	Update(ctx context.Context, record *models.GradeRecord) error
	Delete(ctx context.Context, id uint) error
	DeleteBatch(ctx context.Context, ids []uint) (int64, error)
	ApplyCleanup(ctx context.Context, deleteIDs []uint, updates []models.GradeRecord) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository constructs a grade repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) List(ctx context.Context, filter GradeFilter) ([]models.GradeRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.GradeRecord{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(student_id) LIKE ? OR LOWER(student_name) LIKE ?", pattern, pattern)
	}
	if filter.ClassName != "" {
		query = query.Where("class_name = ?", filter.ClassName)
	}
	if filter.Classification != "" {
		query = query.Where("classification = ?", filter.Classification)
	}
	if filter.Term > 0 {
		query = query.Where("term = ?", filter.Term)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}

	var records []models.GradeRecord
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gradeRepository) GetByID(ctx context.Context, id uint) (models.GradeRecord, error) {
	var record models.GradeRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return models.GradeRecord{}, err
	}
	return record, nil
}

func (r *gradeRepository) Create(ctx context.Context, record *models.GradeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gradeRepository) CreateBatch(ctx context.Context, records []models.GradeRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *gradeRepository) Update(ctx context.Context, record *models.GradeRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *gradeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.GradeRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gradeRepository) DeleteBatch(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&models.GradeRecord{}, ids)
	return result.RowsAffected, result.Error
}

// ApplyCleanup commits a cleanup plan in one transaction: either every
// delete and update lands or none do. Records outside the plan are never
// written, so their ids and timestamps survive a cleanup untouched.
func (r *gradeRepository) ApplyCleanup(ctx context.Context, deleteIDs []uint, updates []models.GradeRecord) error {
	if len(deleteIDs) == 0 && len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(deleteIDs) > 0 {
			if err := tx.Delete(&models.GradeRecord{}, deleteIDs).Error; err != nil {
				return err
			}
		}
		for i := range updates {
			if err := tx.Save(&updates[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
