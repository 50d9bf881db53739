package service

import (
	"context"
	"errors"
	"fmt"

	"learnhub/internal/models"
	"learnhub/internal/repository"
)

// Domain errors for course flows.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrTitleLevelRequired = errors.New("title and level are required")
	ErrInvalidCourseLevel = errors.New("invalid course level")
	ErrNotCourseOwner     = errors.New("caller does not own this course")
)

// CourseService orchestrates catalog reads and authoring writes.
type CourseService struct {
	courses repository.Courses
}

func NewCourseService(courses repository.Courses) *CourseService {
	return &CourseService{courses: courses}
}

func validLevel(level string) bool {
	switch level {
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
		return true
	}
	return false
}

// ListPublished returns the public catalog, newest first.
func (s *CourseService) ListPublished(ctx context.Context) ([]models.Course, error) {
	return s.courses.ListPublished(ctx)
}

// GetByID returns a course with instructor info and ordered steps.
// Drafts are readable by ID; only the catalog listing filters on published.
func (s *CourseService) GetByID(ctx context.Context, id int) (*models.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

// ListOwned returns the caller's courses annotated with step IDs only.
func (s *CourseService) ListOwned(ctx context.Context, instructorID int) ([]models.CourseSummary, error) {
	return s.courses.ListByInstructor(ctx, instructorID)
}

// Create stores a new unpublished draft owned by the caller.
func (s *CourseService) Create(ctx context.Context, instructorID int, p CreateCourseParams) (*models.Course, error) {
	if p.Title == "" || p.Level == "" {
		return nil, ErrTitleLevelRequired
	}
	if !validLevel(p.Level) {
		return nil, ErrInvalidCourseLevel
	}

	id, err := s.courses.Create(ctx, models.Course{
		Title:        p.Title,
		Description:  p.Description,
		Level:        p.Level,
		InstructorID: instructorID,
		IsPublished:  false,
	})
	if err != nil {
		return nil, err
	}

	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("course %d vanished after insert", id)
	}
	return c, nil
}

// Publish replaces the course's step set wholesale and flips it to published.
// Step order is recomputed from array position and missing titles get a
// positional placeholder; whatever order values the client sent are ignored.
func (s *CourseService) Publish(ctx context.Context, courseID, callerID int, steps []StepInput) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if course.InstructorID != callerID {
		return ErrNotCourseOwner
	}

	rows := make([]models.Step, 0, len(steps))
	for i, in := range steps {
		title := in.Title
		if title == "" {
			title = fmt.Sprintf("Step %d", i+1)
		}
		blocks := in.Blocks
		if blocks == nil {
			blocks = []models.ContentBlock{}
		}
		rows = append(rows, models.Step{
			CourseID: courseID,
			Title:    title,
			Order:    i,
			Blocks:   blocks,
		})
	}

	return s.courses.ReplaceSteps(ctx, courseID, rows)
}
