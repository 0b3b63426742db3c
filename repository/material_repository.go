package repository

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/models"
)

type MaterialRepository interface {
	BaseRepository[models.LearningMaterial]
	ListForTeacher(teacherID uuid.UUID, status string, page, pageSize int) ([]*models.LearningMaterial, int64, error)
	ListForTeachers(teacherIDs []uuid.UUID, status string, page, pageSize int) ([]*models.LearningMaterial, int64, error)
	MarkProcessing(id uuid.UUID) error
	MarkCompleted(id uuid.UUID, processedText string, metadata datatypes.JSON) error
	MarkFailed(id uuid.UUID, errorMessage string) error
}

type MaterialRepositoryImpl struct {
	*BaseRepositoryImpl[models.LearningMaterial]
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &MaterialRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.LearningMaterial](db),
	}
}

func (r *MaterialRepositoryImpl) ListForTeacher(teacherID uuid.UUID, status string, page, pageSize int) ([]*models.LearningMaterial, int64, error) {
	return r.list("teacher_id = ?", teacherID, status, page, pageSize)
}

// ListForTeachers lists materials owned by any of teacherIDs, the
// student-facing query. An empty ID set yields an empty page, not an
// unfiltered scan.
func (r *MaterialRepositoryImpl) ListForTeachers(teacherIDs []uuid.UUID, status string, page, pageSize int) ([]*models.LearningMaterial, int64, error) {
	if len(teacherIDs) == 0 {
		return nil, 0, nil
	}
	return r.list("teacher_id IN ?", teacherIDs, status, page, pageSize)
}

func (r *MaterialRepositoryImpl) list(ownerQuery string, ownerArg interface{}, status string, page, pageSize int) ([]*models.LearningMaterial, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.Model(&models.LearningMaterial{}).Where(ownerQuery, ownerArg)
		if status != "" {
			q = q.Where("processing_status = ?", status)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var materials []*models.LearningMaterial
	offset := (page - 1) * pageSize
	err := scope().
		Limit(pageSize).
		Offset(offset).
		Order("created_at DESC").
		Find(&materials).Error
	if err != nil {
		return nil, 0, err
	}

	return materials, total, nil
}

// MarkProcessing flips pending -> processing. The status predicate
// keeps the transition one-way if the task is ever scheduled twice.
func (r *MaterialRepositoryImpl) MarkProcessing(id uuid.UUID) error {
	return r.db.Model(&models.LearningMaterial{}).
		Where("id = ? AND processing_status = ?", id, models.ProcessingStatusPending).
		Update("processing_status", models.ProcessingStatusProcessing).Error
}

func (r *MaterialRepositoryImpl) MarkCompleted(id uuid.UUID, processedText string, metadata datatypes.JSON) error {
	return r.db.Model(&models.LearningMaterial{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processed_text":    processedText,
		"processing_status": models.ProcessingStatusCompleted,
		"metadata":          metadata,
	}).Error
}

func (r *MaterialRepositoryImpl) MarkFailed(id uuid.UUID, errorMessage string) error {
	return r.db.Model(&models.LearningMaterial{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processing_status": models.ProcessingStatusFailed,
		"error_message":     errorMessage,
	}).Error
}
