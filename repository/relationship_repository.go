package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/models"
)

type RelationshipRepository interface {
	BaseRepository[models.TeacherStudent]
	HasAccepted(studentID, teacherID uuid.UUID) (bool, error)
	AcceptedTeacherIDs(studentID uuid.UUID) ([]uuid.UUID, error)
}

type RelationshipRepositoryImpl struct {
	*BaseRepositoryImpl[models.TeacherStudent]
}

func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &RelationshipRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.TeacherStudent](db),
	}
}

func (r *RelationshipRepositoryImpl) HasAccepted(studentID, teacherID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeacherStudent{}).
		Where("student_id = ? AND teacher_id = ? AND status = ?", studentID, teacherID, models.RelationshipAccepted).
		Count(&count).Error
	return count > 0, err
}

func (r *RelationshipRepositoryImpl) AcceptedTeacherIDs(studentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.TeacherStudent{}).
		Where("student_id = ? AND status = ?", studentID, models.RelationshipAccepted).
		Pluck("teacher_id", &ids).Error
	return ids, err
}
