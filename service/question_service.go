package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/apperr"
	"github.com/tokutei/learning-api/models"
	"github.com/tokutei/learning-api/repository"
)

type QuestionInput struct {
	MaterialID      uuid.UUID
	QuestionText    string
	Options         []string
	CorrectAnswer   int
	Explanation     *string
	DifficultyLevel int
	QuestionType    string
}

type LearningRecordInput struct {
	QuestionID     uuid.UUID
	SelectedAnswer int
	TimeSpent      int
	SessionID      *string
}

type QuestionService interface {
	Create(ctx context.Context, user *models.Profile, in QuestionInput) (*models.Question, error)
	ListByMaterial(ctx context.Context, user *models.Profile, materialID uuid.UUID, params ListParams) (*Page[models.Question], error)
	RecordAnswer(ctx context.Context, user *models.Profile, in LearningRecordInput) (*models.LearningRecord, error)
	ListRecords(ctx context.Context, user *models.Profile, params ListParams) (*Page[models.LearningRecord], error)
}

type QuestionServiceImpl struct {
	questions repository.QuestionRepository
	records   repository.LearningRecordRepository
	materials repository.MaterialRepository
	access    *AccessDecider
}

func NewQuestionService(questions repository.QuestionRepository, records repository.LearningRecordRepository, materials repository.MaterialRepository, access *AccessDecider) QuestionService {
	return &QuestionServiceImpl{
		questions: questions,
		records:   records,
		materials: materials,
		access:    access,
	}
}

func (in QuestionInput) validate() error {
	if strings.TrimSpace(in.QuestionText) == "" {
		return apperr.Validation("question text cannot be empty")
	}
	if len(in.Options) < 2 || len(in.Options) > 4 {
		return apperr.Validation("options must have between 2 and 4 entries")
	}
	if in.CorrectAnswer < 0 || in.CorrectAnswer >= len(in.Options) {
		return apperr.Validation("correct answer index is out of range")
	}
	if in.DifficultyLevel < 1 || in.DifficultyLevel > 5 {
		return apperr.Validation("difficulty level must be between 1 and 5")
	}
	if !models.ValidQuestionType(in.QuestionType) {
		return apperr.Validation("unknown question type: " + in.QuestionType)
	}
	return nil
}

func (s *QuestionServiceImpl) Create(ctx context.Context, user *models.Profile, in QuestionInput) (*models.Question, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	material, err := s.materials.GetByID(in.MaterialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("material not found")
		}
		return nil, apperr.Upstream("failed to load material", err)
	}
	if !s.access.CanWrite(user, material) {
		return nil, apperr.Authorization("access denied")
	}

	options, err := json.Marshal(in.Options)
	if err != nil {
		return nil, apperr.Upstream("failed to encode options", err)
	}
	question := &models.Question{
		MaterialID:      in.MaterialID,
		QuestionText:    strings.TrimSpace(in.QuestionText),
		Options:         datatypes.JSON(options),
		CorrectAnswer:   in.CorrectAnswer,
		Explanation:     in.Explanation,
		DifficultyLevel: in.DifficultyLevel,
		QuestionType:    in.QuestionType,
	}
	if err := s.questions.Create(question); err != nil {
		return nil, apperr.Upstream("failed to create question", err)
	}
	return question, nil
}

func (s *QuestionServiceImpl) ListByMaterial(ctx context.Context, user *models.Profile, materialID uuid.UUID, params ListParams) (*Page[models.Question], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	material, err := s.materials.GetByID(materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("material not found")
		}
		return nil, apperr.Upstream("failed to load material", err)
	}
	ok, err := s.access.CanRead(user, material)
	if err != nil {
		return nil, apperr.Upstream("failed to check access", err)
	}
	if !ok {
		return nil, apperr.Authorization("access denied")
	}

	questions, total, err := s.questions.ListByMaterial(materialID, params.Page, params.Size)
	if err != nil {
		return nil, apperr.Upstream("failed to list questions", err)
	}
	return NewPage(questions, total, params.Page, params.Size), nil
}

// RecordAnswer grades against the stored correct answer; the client
// never submits the correctness bit itself.
func (s *QuestionServiceImpl) RecordAnswer(ctx context.Context, user *models.Profile, in LearningRecordInput) (*models.LearningRecord, error) {
	if user.Role != models.RoleStudent {
		return nil, apperr.Authorization("only students can record answers")
	}
	if in.TimeSpent < 0 {
		return nil, apperr.Validation("time spent cannot be negative")
	}

	question, err := s.questions.GetByID(in.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, apperr.Upstream("failed to load question", err)
	}

	material, err := s.materials.GetByID(question.MaterialID)
	if err != nil {
		return nil, apperr.Upstream("failed to load material", err)
	}
	ok, err := s.access.CanRead(user, material)
	if err != nil {
		return nil, apperr.Upstream("failed to check access", err)
	}
	if !ok {
		return nil, apperr.Authorization("access denied")
	}

	var optionCount int
	var options []string
	if err := json.Unmarshal(question.Options, &options); err == nil {
		optionCount = len(options)
	}
	if optionCount > 0 && (in.SelectedAnswer < 0 || in.SelectedAnswer >= optionCount) {
		return nil, apperr.Validation("selected answer index is out of range")
	}

	record := &models.LearningRecord{
		StudentID:      user.ID,
		QuestionID:     in.QuestionID,
		SelectedAnswer: in.SelectedAnswer,
		IsCorrect:      in.SelectedAnswer == question.CorrectAnswer,
		TimeSpent:      in.TimeSpent,
		SessionID:      in.SessionID,
	}
	if err := s.records.Create(record); err != nil {
		return nil, apperr.Upstream("failed to create learning record", err)
	}
	return record, nil
}

func (s *QuestionServiceImpl) ListRecords(ctx context.Context, user *models.Profile, params ListParams) (*Page[models.LearningRecord], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, apperr.Authorization("only students have learning records")
	}
	records, total, err := s.records.ListByStudent(user.ID, params.Page, params.Size)
	if err != nil {
		return nil, apperr.Upstream("failed to list learning records", err)
	}
	return NewPage(records, total, params.Page, params.Size), nil
}
