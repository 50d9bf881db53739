package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"learnhub/internal/models"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

// mockAuth implements service.Authorization with per-test function fields.
type mockAuth struct {
	RegisterFn      func(username, password string) (*models.User, string, error)
	LoginFn         func(username, password string) (*models.User, string, error)
	ParseTokenFn    func(token string) (service.Identity, error)
	GetProfileFn    func(userID int) (*models.User, error)
	UpdateProfileFn func(userID int, upd service.ProfileUpdate) (*models.User, error)
}

func (m *mockAuth) Register(_ context.Context, username, password string) (*models.User, string, error) {
	return m.RegisterFn(username, password)
}

func (m *mockAuth) Login(_ context.Context, username, password string) (*models.User, string, error) {
	return m.LoginFn(username, password)
}

func (m *mockAuth) ParseToken(token string) (service.Identity, error) {
	if m.ParseTokenFn != nil {
		return m.ParseTokenFn(token)
	}
	return service.Identity{}, errors.New("ParseToken not configured")
}

func (m *mockAuth) GetProfile(_ context.Context, userID int) (*models.User, error) {
	return m.GetProfileFn(userID)
}

func (m *mockAuth) UpdateProfile(_ context.Context, userID int, upd service.ProfileUpdate) (*models.User, error) {
	return m.UpdateProfileFn(userID, upd)
}

// mockCourses implements service.Courses with per-test function fields.
type mockCourses struct {
	ListPublishedFn func() ([]models.Course, error)
	GetByIDFn       func(id int) (*models.Course, error)
	ListOwnedFn     func(instructorID int) ([]models.CourseSummary, error)
	CreateFn        func(instructorID int, p service.CreateCourseParams) (*models.Course, error)
	PublishFn       func(courseID, callerID int, steps []service.StepInput) error
}

func (m *mockCourses) ListPublished(_ context.Context) ([]models.Course, error) {
	return m.ListPublishedFn()
}

func (m *mockCourses) GetByID(_ context.Context, id int) (*models.Course, error) {
	return m.GetByIDFn(id)
}

func (m *mockCourses) ListOwned(_ context.Context, instructorID int) ([]models.CourseSummary, error) {
	return m.ListOwnedFn(instructorID)
}

func (m *mockCourses) Create(_ context.Context, instructorID int, p service.CreateCourseParams) (*models.Course, error) {
	return m.CreateFn(instructorID, p)
}

func (m *mockCourses) Publish(_ context.Context, courseID, callerID int, steps []service.StepInput) error {
	return m.PublishFn(courseID, callerID, steps)
}

// okParseToken authenticates every request as the given caller.
func okParseToken(userID int, username string) func(string) (service.Identity, error) {
	return func(string) (service.Identity, error) {
		return service.Identity{UserID: userID, Username: username}, nil
	}
}

// newTestRouter builds a router around the mocks without CORS.
func newTestRouter(auth service.Authorization, courses service.Courses) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(&service.Service{Authorization: auth, Courses: courses}, nil)
	return h.InitRoutes(CORSConfig{})
}

// decodeEnvelope unmarshals the response body into the standard envelope.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response body %q: %v", w.Body.String(), err)
	}
	return resp
}
