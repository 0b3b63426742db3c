package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/models"
)

type QuestionRepository interface {
	BaseRepository[models.Question]
	ListByMaterial(materialID uuid.UUID, page, pageSize int) ([]*models.Question, int64, error)
}

type QuestionRepositoryImpl struct {
	*BaseRepositoryImpl[models.Question]
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &QuestionRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.Question](db),
	}
}

func (r *QuestionRepositoryImpl) ListByMaterial(materialID uuid.UUID, page, pageSize int) ([]*models.Question, int64, error) {
	var total int64
	if err := r.db.Model(&models.Question{}).Where("material_id = ?", materialID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []*models.Question
	err := r.db.
		Where("material_id = ?", materialID).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}
