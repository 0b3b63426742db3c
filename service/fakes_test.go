package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/models"
)

type fakeMaterialRepo struct {
	mu        sync.Mutex
	materials map[uuid.UUID]*models.LearningMaterial
	createErr error
	statusCh  chan string
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{
		materials: map[uuid.UUID]*models.LearningMaterial{},
		statusCh:  make(chan string, 4),
	}
}

func (r *fakeMaterialRepo) Create(m *models.LearningMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) GetByID(id uuid.UUID) (*models.LearningMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMaterialRepo) Update(m *models.LearningMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) UpdateFields(id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"]; ok {
		m.Title = v.(string)
	}
	if v, ok := updates["description"]; ok {
		d := v.(string)
		m.Description = &d
	}
	return nil
}

func (r *fakeMaterialRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.materials, id)
	return nil
}

func (r *fakeMaterialRepo) List(limit, offset int) ([]*models.LearningMaterial, error) {
	return nil, nil
}

func (r *fakeMaterialRepo) Count() (int64, error) { return 0, nil }

func (r *fakeMaterialRepo) ListForTeacher(teacherID uuid.UUID, status string, page, pageSize int) ([]*models.LearningMaterial, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LearningMaterial
	for _, m := range r.materials {
		if m.TeacherID == teacherID && (status == "" || m.ProcessingStatus == status) {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeMaterialRepo) ListForTeachers(teacherIDs []uuid.UUID, status string, page, pageSize int) ([]*models.LearningMaterial, int64, error) {
	var out []*models.LearningMaterial
	var total int64
	for _, id := range teacherIDs {
		items, n, _ := r.ListForTeacher(id, status, page, pageSize)
		out = append(out, items...)
		total += n
	}
	return out, total, nil
}

func (r *fakeMaterialRepo) MarkProcessing(id uuid.UUID) error {
	return r.setStatus(id, models.ProcessingStatusProcessing)
}

func (r *fakeMaterialRepo) MarkCompleted(id uuid.UUID, processedText string, metadata datatypes.JSON) error {
	r.mu.Lock()
	if m, ok := r.materials[id]; ok {
		m.ProcessedText = &processedText
		m.Metadata = metadata
	}
	r.mu.Unlock()
	return r.setStatus(id, models.ProcessingStatusCompleted)
}

func (r *fakeMaterialRepo) MarkFailed(id uuid.UUID, errorMessage string) error {
	r.mu.Lock()
	if m, ok := r.materials[id]; ok {
		m.ErrorMessage = &errorMessage
	}
	r.mu.Unlock()
	return r.setStatus(id, models.ProcessingStatusFailed)
}

func (r *fakeMaterialRepo) setStatus(id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.ProcessingStatus = status
	select {
	case r.statusCh <- status:
	default:
	}
	return nil
}

// waitForTerminalStatus blocks until the background processor records
// completed or failed.
func (r *fakeMaterialRepo) waitForTerminalStatus(timeout time.Duration) (string, error) {
	deadline := time.After(timeout)
	for {
		select {
		case s := <-r.statusCh:
			if s == models.ProcessingStatusCompleted || s == models.ProcessingStatusFailed {
				return s, nil
			}
		case <-deadline:
			return "", errors.New("timed out waiting for terminal status")
		}
	}
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	removeErr error
	removed   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) key(bucket, objectName string) string {
	return bucket + "/" + objectName
}

func (s *fakeStorage) Upload(ctx context.Context, bucket, objectName string, content []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.objects[s.key(bucket, objectName)] = content
	return nil
}

func (s *fakeStorage) Remove(ctx context.Context, bucket, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, s.key(bucket, objectName))
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, s.key(bucket, objectName))
	return nil
}

func (s *fakeStorage) PresignedGetURL(ctx context.Context, bucket, objectName string, expiry time.Duration) (string, error) {
	return "https://storage.example.com/" + s.key(bucket, objectName), nil
}

type fakeRelationships struct {
	accepted map[uuid.UUID][]uuid.UUID
}

func (f *fakeRelationships) HasAccepted(studentID, teacherID uuid.UUID) (bool, error) {
	for _, id := range f.accepted[studentID] {
		if id == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRelationships) AcceptedTeacherIDs(studentID uuid.UUID) ([]uuid.UUID, error) {
	return f.accepted[studentID], nil
}

// minimalPDF builds a one-page PDF with a correct xref table. The page
// has no content stream, so validation passes while text extraction
// reports there is nothing to extract.
func minimalPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 4)
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")
	xref := buf.Len()
	buf.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n", xref)
	buf.WriteString("%%EOF\n")
	return buf.Bytes()
}
