package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeFillBlank      = "fill_blank"
)

func ValidQuestionType(s string) bool {
	switch s {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeFillBlank:
		return true
	}
	return false
}

type Question struct {
	Base
	MaterialID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"material_id"`
	QuestionText    string         `gorm:"type:text;not null" json:"question_text"`
	Options         datatypes.JSON `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer   int            `gorm:"not null" json:"correct_answer"`
	Explanation     *string        `gorm:"type:text" json:"explanation"`
	DifficultyLevel int            `gorm:"default:1" json:"difficulty_level"`
	QuestionType    string         `gorm:"type:varchar(50);default:'multiple_choice'" json:"question_type"`

	Material LearningMaterial `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

// LearningRecord is a student's answer event for a question.
type LearningRecord struct {
	Base
	StudentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	SelectedAnswer int       `gorm:"not null" json:"selected_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	TimeSpent      int       `gorm:"not null" json:"time_spent"`
	SessionID      *string   `json:"session_id"`

	Question Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LearningRecord) TableName() string {
	return "learning_records"
}
