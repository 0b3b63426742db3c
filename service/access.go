package service

import (
	"github.com/google/uuid"

	"github.com/tokutei/learning-api/models"
)

// RelationshipChecker is the lookup the access decisions need; the
// relationship repository satisfies it.
type RelationshipChecker interface {
	HasAccepted(studentID, teacherID uuid.UUID) (bool, error)
	AcceptedTeacherIDs(studentID uuid.UUID) ([]uuid.UUID, error)
}

// AccessDecider answers who may read or write a material. Teachers
// touch only what they own; students read materials of teachers they
// have an accepted relationship with, and never write.
type AccessDecider struct {
	relationships RelationshipChecker
}

func NewAccessDecider(relationships RelationshipChecker) *AccessDecider {
	return &AccessDecider{relationships: relationships}
}

func (d *AccessDecider) CanRead(user *models.Profile, material *models.LearningMaterial) (bool, error) {
	switch user.Role {
	case models.RoleTeacher:
		return material.TeacherID == user.ID, nil
	case models.RoleStudent:
		return d.relationships.HasAccepted(user.ID, material.TeacherID)
	}
	return false, nil
}

func (d *AccessDecider) CanWrite(user *models.Profile, material *models.LearningMaterial) bool {
	return user.Role == models.RoleTeacher && material.TeacherID == user.ID
}
