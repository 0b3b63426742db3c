package models

import "github.com/google/uuid"

type Profile struct {
	Base
	Email             string `gorm:"uniqueIndex;not null" json:"email"`
	FullName          string `gorm:"not null" json:"full_name"`
	Role              string `gorm:"default:'student'" json:"role"`
	AvatarURL         string `json:"avatar_url,omitempty"`
	PreferredLanguage string `gorm:"default:'ja'" json:"preferred_language"`
	OrganizationName  string `json:"organization_name,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// TeacherStudent links a student to a teacher. Only rows with
// status "accepted" grant the student read access to that
// teacher's materials.
type TeacherStudent struct {
	Base
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Status    string    `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
}

func (TeacherStudent) TableName() string {
	return "teacher_students"
}

const (
	RelationshipPending  = "pending"
	RelationshipAccepted = "accepted"
)
