package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/models"
)

type LearningRecordRepository interface {
	BaseRepository[models.LearningRecord]
	ListByStudent(studentID uuid.UUID, page, pageSize int) ([]*models.LearningRecord, int64, error)
}

type LearningRecordRepositoryImpl struct {
	*BaseRepositoryImpl[models.LearningRecord]
}

func NewLearningRecordRepository(db *gorm.DB) LearningRecordRepository {
	return &LearningRecordRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.LearningRecord](db),
	}
}

func (r *LearningRecordRepositoryImpl) ListByStudent(studentID uuid.UUID, page, pageSize int) ([]*models.LearningRecord, int64, error) {
	var total int64
	if err := r.db.Model(&models.LearningRecord{}).Where("student_id = ?", studentID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*models.LearningRecord
	err := r.db.
		Where("student_id = ?", studentID).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
