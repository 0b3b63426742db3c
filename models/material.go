package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LearningMaterial struct {
	Base
	TeacherID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title            string         `gorm:"not null" json:"title"`
	Description      *string        `gorm:"type:text" json:"description"`
	FilePath         string         `gorm:"not null" json:"file_path"`
	FileSize         int64          `gorm:"not null" json:"file_size"`
	FileType         string         `gorm:"not null" json:"file_type"`
	Bucket           string         `gorm:"not null" json:"-"`
	ProcessedText    *string        `gorm:"type:text" json:"processed_text"`
	ProcessingStatus string         `gorm:"type:varchar(50);not null;index;default:'pending'" json:"processing_status"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message"`
	Metadata         datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
}

func (LearningMaterial) TableName() string {
	return "learning_materials"
}

// Processing lifecycle: pending -> processing -> completed | failed.
const (
	ProcessingStatusPending    = "pending"
	ProcessingStatusProcessing = "processing"
	ProcessingStatusCompleted  = "completed"
	ProcessingStatusFailed     = "failed"
)

// ValidProcessingStatus reports whether s names a known lifecycle state.
func ValidProcessingStatus(s string) bool {
	switch s {
	case ProcessingStatusPending, ProcessingStatusProcessing, ProcessingStatusCompleted, ProcessingStatusFailed:
		return true
	}
	return false
}
