package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/models"
)

type fakeVerifier struct {
	userID uuid.UUID
	err    error
}

func (f *fakeVerifier) Verify(token string) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.userID, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile
}

func (r *fakeProfileRepo) Create(p *models.Profile) error { return nil }

func (r *fakeProfileRepo) GetByID(id uuid.UUID) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) Update(p *models.Profile) error { return nil }

func (r *fakeProfileRepo) UpdateFields(id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (r *fakeProfileRepo) Delete(id uuid.UUID) error { return nil }

func (r *fakeProfileRepo) List(limit, offset int) ([]*models.Profile, error) { return nil, nil }

func (r *fakeProfileRepo) Count() (int64, error) { return 0, nil }

func (r *fakeProfileRepo) GetByEmail(email string) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func authTestRouter(auth *Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{auth.RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestRequireAuthLoadsProfile(t *testing.T) {
	userID := uuid.New()
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*models.Profile{
		userID: {Base: models.Base{ID: userID}, Role: models.RoleTeacher},
	}}
	r := authTestRouter(NewAuthenticator(&fakeVerifier{userID: userID}, repo))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthRejections(t *testing.T) {
	userID := uuid.New()
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*models.Profile{
		userID: {Base: models.Base{ID: userID}, Role: models.RoleTeacher},
	}}

	cases := []struct {
		name     string
		verifier *fakeVerifier
		header   string
		message  string
	}{
		{"missing header", &fakeVerifier{userID: userID}, "", "missing Authorization header"},
		{"no bearer prefix", &fakeVerifier{userID: userID}, "Token abc", "malformed Authorization header"},
		{"empty token", &fakeVerifier{userID: userID}, "Bearer ", "malformed Authorization header"},
		{"invalid token", &fakeVerifier{err: errors.New("invalid token")}, "Bearer bad", "invalid token"},
		{"unknown user", &fakeVerifier{userID: uuid.New()}, "Bearer some-token", "unknown user"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := authTestRouter(NewAuthenticator(tc.verifier, repo))
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp["error"] != tc.message {
				t.Fatalf("error body = %q, want %q", resp["error"], tc.message)
			}
		})
	}
}

func TestRequireTeacherBlocksStudents(t *testing.T) {
	studentID := uuid.New()
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*models.Profile{
		studentID: {Base: models.Base{ID: studentID}, Role: models.RoleStudent},
	}}
	r := authTestRouter(NewAuthenticator(&fakeVerifier{userID: studentID}, repo), RequireTeacher())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
