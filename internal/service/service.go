package service

import (
	"context"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repository"
)

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID   int
	Username string
}

// ProfileUpdate carries optional profile mutations. A provided password is
// re-hashed before it reaches the store.
type ProfileUpdate struct {
	Username *string
	Bio      *string
	Password *string
}

// Authorization handles accounts, credentials and bearer tokens.
type Authorization interface {
	Register(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	ParseToken(accessToken string) (Identity, error)
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int, upd ProfileUpdate) (*models.User, error)
}

// CreateCourseParams is the validated input for a new draft.
type CreateCourseParams struct {
	Title       string
	Description string
	Level       string
}

// StepInput is one client-authored step; order is implied by array position.
type StepInput struct {
	Title  string
	Blocks []models.ContentBlock
}

// Courses exposes catalog reads and authoring writes.
type Courses interface {
	ListPublished(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id int) (*models.Course, error)
	ListOwned(ctx context.Context, instructorID int) ([]models.CourseSummary, error)
	Create(ctx context.Context, instructorID int, p CreateCourseParams) (*models.Course, error)
	Publish(ctx context.Context, courseID, callerID int, steps []StepInput) error
}

// AuthConfig holds token signing material; injected instead of hidden in a
// package-level constant so tests can supply their own.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Courses
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, authCfg AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, authCfg),
		Courses:       NewCourseService(repos.Courses),
	}
}
