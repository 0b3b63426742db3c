package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tokutei/learning-api/apperr"
	"github.com/tokutei/learning-api/middleware"
	"github.com/tokutei/learning-api/service"
)

type MaterialHandler struct {
	materials service.MaterialService
}

func NewMaterialHandler(materials service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// Upload handles POST /materials/upload (multipart form).
func (h *MaterialHandler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	title, ok := c.GetPostForm("title")
	if !ok {
		respondError(c, apperr.ValidationUnprocessable("title is required"))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, apperr.ValidationUnprocessable("file is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, apperr.Upstream("failed to read uploaded file", err))
		return
	}

	in := service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		Title:       title,
	}
	if description, ok := c.GetPostForm("description"); ok {
		in.Description = &description
	}

	material, err := h.materials.Upload(c.Request.Context(), user, in)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"material_id": material.ID,
		"teacher_id":  user.ID,
		"size":        len(content),
	}).Info("material uploaded")
	c.JSON(http.StatusCreated, material)
}

// GetStatus handles GET /materials/:id/status, the polling endpoint
// for upload processing.
func (h *MaterialHandler) GetStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	material, err := h.materials.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                material.ID,
		"processing_status": material.ProcessingStatus,
		"error_message":     material.ErrorMessage,
	})
}

// Get handles GET /materials/:id.
func (h *MaterialHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	material, err := h.materials.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

// List handles GET /materials/.
func (h *MaterialHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	params, err := parseListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.materials.List(c.Request.Context(), user, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Update handles PUT /materials/:id.
func (h *MaterialHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	material, err := h.materials.Update(c.Request.Context(), user, id, service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

// Delete handles DELETE /materials/:id.
func (h *MaterialHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	title, err := h.materials.Delete(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "material '" + title + "' deleted successfully"})
}

// Download handles GET /materials/:id/download.
func (h *MaterialHandler) Download(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.materials.DownloadURL(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid material id")
	}
	return id, nil
}

func parseListParams(c *gin.Context) (service.ListParams, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return service.ListParams{}, apperr.Validation("page must be an integer")
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		return service.ListParams{}, apperr.Validation("size must be an integer")
	}
	return service.ListParams{
		Page:   page,
		Size:   size,
		Status: c.Query("status"),
	}, nil
}

func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		logrus.WithError(appErr).Error("request failed")
	}
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
