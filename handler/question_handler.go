package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tokutei/learning-api/apperr"
	"github.com/tokutei/learning-api/middleware"
	"github.com/tokutei/learning-api/service"
)

type QuestionHandler struct {
	questions service.QuestionService
}

func NewQuestionHandler(questions service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Create handles POST /questions.
func (h *QuestionHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		MaterialID      string   `json:"material_id"`
		QuestionText    string   `json:"question_text"`
		Options         []string `json:"options"`
		CorrectAnswer   int      `json:"correct_answer"`
		Explanation     *string  `json:"explanation"`
		DifficultyLevel int      `json:"difficulty_level"`
		QuestionType    string   `json:"question_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		respondError(c, apperr.Validation("invalid material id"))
		return
	}
	if req.DifficultyLevel == 0 {
		req.DifficultyLevel = 1
	}
	if req.QuestionType == "" {
		req.QuestionType = "multiple_choice"
	}

	question, err := h.questions.Create(c.Request.Context(), user, service.QuestionInput{
		MaterialID:      materialID,
		QuestionText:    req.QuestionText,
		Options:         req.Options,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		DifficultyLevel: req.DifficultyLevel,
		QuestionType:    req.QuestionType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// ListByMaterial handles GET /materials/:id/questions.
func (h *QuestionHandler) ListByMaterial(c *gin.Context) {
	user := middleware.CurrentUser(c)
	materialID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	params, err := parseListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.questions.ListByMaterial(c.Request.Context(), user, materialID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// RecordAnswer handles POST /learning-records.
func (h *QuestionHandler) RecordAnswer(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		QuestionID     string  `json:"question_id"`
		SelectedAnswer int     `json:"selected_answer"`
		TimeSpent      int     `json:"time_spent"`
		SessionID      *string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		respondError(c, apperr.Validation("invalid question id"))
		return
	}

	record, err := h.questions.RecordAnswer(c.Request.Context(), user, service.LearningRecordInput{
		QuestionID:     questionID,
		SelectedAnswer: req.SelectedAnswer,
		TimeSpent:      req.TimeSpent,
		SessionID:      req.SessionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListRecords handles GET /learning-records.
func (h *QuestionHandler) ListRecords(c *gin.Context) {
	user := middleware.CurrentUser(c)
	params, err := parseListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.questions.ListRecords(c.Request.Context(), user, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
