package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/apperr"
	"github.com/tokutei/learning-api/config"
	"github.com/tokutei/learning-api/models"
	"github.com/tokutei/learning-api/pkg/fileutil"
	"github.com/tokutei/learning-api/pkg/metrics"
	"github.com/tokutei/learning-api/pkg/pdfutil"
	"github.com/tokutei/learning-api/repository"
	"github.com/tokutei/learning-api/storage"
)

const pdfContentType = "application/pdf"

type UploadInput struct {
	Filename    string
	ContentType string
	Content     []byte
	Title       string
	Description *string
}

type UpdateInput struct {
	Title       *string
	Description *string
}

type ListParams struct {
	Page   int
	Size   int
	Status string
}

// Page is the pagination envelope shared by list endpoints.
type Page[T any] struct {
	Items []*T  `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

func NewPage[T any](items []*T, total int64, page, size int) *Page[T] {
	if items == nil {
		items = []*T{}
	}
	return &Page[T]{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: int((total + int64(size) - 1) / int64(size)),
	}
}

func (p ListParams) validate() error {
	if p.Page < 1 {
		return apperr.Validation("page must be >= 1")
	}
	if p.Size < 1 || p.Size > 100 {
		return apperr.Validation("size must be between 1 and 100")
	}
	if p.Status != "" && !models.ValidProcessingStatus(p.Status) {
		return apperr.Validation("unknown processing status: " + p.Status)
	}
	return nil
}

type MaterialService interface {
	Upload(ctx context.Context, teacher *models.Profile, in UploadInput) (*models.LearningMaterial, error)
	Get(ctx context.Context, user *models.Profile, id uuid.UUID) (*models.LearningMaterial, error)
	List(ctx context.Context, user *models.Profile, params ListParams) (*Page[models.LearningMaterial], error)
	Update(ctx context.Context, user *models.Profile, id uuid.UUID, in UpdateInput) (*models.LearningMaterial, error)
	Delete(ctx context.Context, user *models.Profile, id uuid.UUID) (string, error)
	DownloadURL(ctx context.Context, user *models.Profile, id uuid.UUID) (string, error)
}

type MaterialServiceImpl struct {
	repo      repository.MaterialRepository
	store     storage.ObjectStorage
	access    *AccessDecider
	processor *ExtractionProcessor
	cfg       *config.Config
}

func NewMaterialService(repo repository.MaterialRepository, store storage.ObjectStorage, access *AccessDecider, processor *ExtractionProcessor, cfg *config.Config) MaterialService {
	return &MaterialServiceImpl{
		repo:      repo,
		store:     store,
		access:    access,
		processor: processor,
		cfg:       cfg,
	}
}

// Upload persists the file to object storage, inserts the metadata
// record with status pending and schedules extraction. Storage write
// comes first so a failed write never leaves an orphaned record; a
// failed insert triggers best-effort cleanup of the written object.
func (s *MaterialServiceImpl) Upload(ctx context.Context, teacher *models.Profile, in UploadInput) (*models.LearningMaterial, error) {
	if in.ContentType != pdfContentType {
		return nil, apperr.Validation("only PDF files are allowed")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title cannot be empty")
	}
	if err := pdfutil.Validate(in.Content, s.cfg.Upload.MaxUploadBytes); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	materialID := uuid.New()
	objectName := fmt.Sprintf("%s/%s/%s", teacher.ID, materialID, fileutil.SanitizeFilename(in.Filename))
	bucket := s.cfg.MinIO.BucketName

	if err := s.store.Upload(ctx, bucket, objectName, in.Content, pdfContentType); err != nil {
		return nil, apperr.Upstream("failed to upload file to storage", err)
	}

	meta, _ := json.Marshal(map[string]any{
		"original_filename": in.Filename,
		"file_hash":         fileutil.HashBytes(in.Content),
		"file_size_human":   fileutil.FormatSize(int64(len(in.Content))),
	})

	var description *string
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d != "" {
			description = &d
		}
	}
	material := &models.LearningMaterial{
		Base:             models.Base{ID: materialID},
		TeacherID:        teacher.ID,
		Title:            title,
		Description:      description,
		FilePath:         objectName,
		FileSize:         int64(len(in.Content)),
		FileType:         pdfContentType,
		Bucket:           bucket,
		ProcessingStatus: models.ProcessingStatusPending,
		Metadata:         datatypes.JSON(meta),
	}
	if err := s.repo.Create(material); err != nil {
		if cleanupErr := s.store.Remove(ctx, bucket, objectName); cleanupErr != nil {
			logrus.WithField("object", objectName).WithError(cleanupErr).Warn("failed to clean up stored file after insert failure")
		}
		return nil, apperr.Upstream("failed to create material record", err)
	}

	metrics.UploadBytes.Add(float64(len(in.Content)))

	// Fire and forget: the caller polls the status endpoint.
	go s.processor.Process(materialID, teacher.ID, in.Content)

	return material, nil
}

func (s *MaterialServiceImpl) Get(ctx context.Context, user *models.Profile, id uuid.UUID) (*models.LearningMaterial, error) {
	material, err := s.repo.GetByID(id)
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
	return material, nil
}

func (s *MaterialServiceImpl) List(ctx context.Context, user *models.Profile, params ListParams) (*Page[models.LearningMaterial], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var (
		items []*models.LearningMaterial
		total int64
		err   error
	)
	switch user.Role {
	case models.RoleTeacher:
		items, total, err = s.repo.ListForTeacher(user.ID, params.Status, params.Page, params.Size)
	case models.RoleStudent:
		var teacherIDs []uuid.UUID
		teacherIDs, err = s.access.relationships.AcceptedTeacherIDs(user.ID)
		if err == nil {
			items, total, err = s.repo.ListForTeachers(teacherIDs, params.Status, params.Page, params.Size)
		}
	default:
		return nil, apperr.Authorization("unknown role")
	}
	if err != nil {
		return nil, apperr.Upstream("failed to list materials", err)
	}
	return NewPage(items, total, params.Page, params.Size), nil
}

// Update mutates title/description only; an empty update returns the
// record unchanged.
func (s *MaterialServiceImpl) Update(ctx context.Context, user *models.Profile, id uuid.UUID, in UpdateInput) (*models.LearningMaterial, error) {
	material, err := s.ownedMaterial(user, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if len(updates) == 0 {
		return material, nil
	}

	if err := s.repo.UpdateFields(id, updates); err != nil {
		return nil, apperr.Upstream("failed to update material", err)
	}
	material, err = s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Upstream("failed to reload material", err)
	}
	return material, nil
}

// Delete removes the stored file best-effort, then the record; the
// database cascades to questions and learning records.
func (s *MaterialServiceImpl) Delete(ctx context.Context, user *models.Profile, id uuid.UUID) (string, error) {
	material, err := s.ownedMaterial(user, id)
	if err != nil {
		return "", err
	}

	if material.FilePath != "" {
		if err := s.store.Remove(ctx, material.Bucket, material.FilePath); err != nil {
			logrus.WithField("object", material.FilePath).WithError(err).Warn("failed to remove stored file, deleting record anyway")
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return "", apperr.Upstream("failed to delete material", err)
	}
	return material.Title, nil
}

// DownloadURL hands out a short-lived presigned link instead of
// proxying file bytes through the API.
func (s *MaterialServiceImpl) DownloadURL(ctx context.Context, user *models.Profile, id uuid.UUID) (string, error) {
	material, err := s.Get(ctx, user, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignedGetURL(ctx, material.Bucket, material.FilePath, 15*time.Minute)
	if err != nil {
		return "", apperr.Upstream("failed to generate download URL", err)
	}
	return url, nil
}

func (s *MaterialServiceImpl) ownedMaterial(user *models.Profile, id uuid.UUID) (*models.LearningMaterial, error) {
	material, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("material not found")
		}
		return nil, apperr.Upstream("failed to load material", err)
	}
	if !s.access.CanWrite(user, material) {
		return nil, apperr.Authorization("access denied")
	}
	return material, nil
}
