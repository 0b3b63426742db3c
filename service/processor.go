package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/tokutei/learning-api/models"
	"github.com/tokutei/learning-api/pkg/metrics"
	"github.com/tokutei/learning-api/pkg/pdfutil"
	"github.com/tokutei/learning-api/pkg/textutil"
	"github.com/tokutei/learning-api/repository"
)

// ExtractionProcessor runs the background half of an upload: it flips
// the material to processing, extracts text from the PDF and records
// the terminal state. It owns a service-level repository handle; the
// uploading user's session is request-scoped and may be gone by the
// time this runs.
type ExtractionProcessor struct {
	materials    repository.MaterialRepository
	publisher    EventPublisher
	chunkSize    int
	chunkOverlap int
	extract      func(content []byte) (string, map[string]any, error)
}

func NewExtractionProcessor(materials repository.MaterialRepository, publisher EventPublisher, chunkSize, chunkOverlap int) *ExtractionProcessor {
	return &ExtractionProcessor{
		materials:    materials,
		publisher:    publisher,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		extract:      pdfutil.ExtractText,
	}
}

// Process runs to completion or failure; there is no retry and no
// timeout beyond the synchronous upload size validation. Errors never
// reach the uploader directly, only the persisted status.
func (p *ExtractionProcessor) Process(materialID, teacherID uuid.UUID, content []byte) {
	log := logrus.WithField("material_id", materialID)

	if err := p.materials.MarkProcessing(materialID); err != nil {
		log.WithError(err).Error("failed to mark material processing")
		return
	}

	start := time.Now()
	text, meta, err := p.extract(content)
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.fail(materialID, err)
		return
	}

	chunks, err := textutil.ChunkText(text, p.chunkSize, p.chunkOverlap)
	if err != nil {
		// Chunk configuration is validated at startup; reaching this
		// means the config was mutated underneath us.
		p.fail(materialID, err)
		return
	}
	meta["chunk_count"] = len(chunks)

	merged, err := p.mergeMetadata(materialID, meta)
	if err != nil {
		p.fail(materialID, err)
		return
	}
	if err := p.materials.MarkCompleted(materialID, text, merged); err != nil {
		log.WithError(err).Error("failed to persist extraction result")
		return
	}

	metrics.MaterialsProcessed.WithLabelValues(models.ProcessingStatusCompleted).Inc()
	log.WithField("text_length", len(text)).Info("material extraction completed")

	if p.publisher != nil {
		p.publisher.PublishTextExtracted(context.Background(), materialID, teacherID, len(text))
	}
}

// fail records the terminal failed state; the error message is the
// user-visible error surfaced by the status endpoint.
func (p *ExtractionProcessor) fail(materialID uuid.UUID, cause error) {
	metrics.MaterialsProcessed.WithLabelValues(models.ProcessingStatusFailed).Inc()
	logrus.WithField("material_id", materialID).WithError(cause).Warn("material extraction failed")
	if err := p.materials.MarkFailed(materialID, cause.Error()); err != nil {
		logrus.WithField("material_id", materialID).WithError(err).Error("failed to mark material failed")
	}
}

// mergeMetadata overlays extraction metadata onto the upload-time
// metadata (original filename, content hash) already on the record.
func (p *ExtractionProcessor) mergeMetadata(materialID uuid.UUID, meta map[string]any) (datatypes.JSON, error) {
	combined := map[string]any{}
	if material, err := p.materials.GetByID(materialID); err == nil && len(material.Metadata) > 0 {
		_ = json.Unmarshal(material.Metadata, &combined)
	}
	for k, v := range meta {
		combined[k] = v
	}
	b, err := json.Marshal(combined)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
