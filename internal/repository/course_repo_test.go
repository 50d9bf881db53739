package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"learnhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockCourseRepo(t *testing.T) (*CourseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewCourseRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func courseColumns() []string {
	return []string{"id", "title", "description", "level", "instructor_id", "is_published", "created_at", "updated_at", "username"}
}

func stepColumns() []string {
	return []string{"id", "course_id", "title", "step_order", "content_blocks", "created_at", "updated_at"}
}

func TestCourseRepository_GetByID(t *testing.T) {
	now := time.Now().UTC()

	t.Run("found with ordered steps", func(t *testing.T) {
		repo, mock, cleanup := newMockCourseRepo(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta(selectCourseByIDSQL)).
			WithArgs(8).
			WillReturnRows(sqlmock.NewRows(courseColumns()).
				AddRow(8, "Go Basics", "intro", "beginner", 3, true, now, now, "alice"))
		mock.ExpectQuery(regexp.QuoteMeta(selectStepsByCourseSQL)).
			WithArgs(8).
			WillReturnRows(sqlmock.NewRows(stepColumns()).
				AddRow(21, 8, "Intro", 0, `[{"type":"text","content":"hi"}]`, now, now).
				AddRow(22, 8, "Step 2", 1, `[]`, now, now))

		c, err := repo.GetByID(context.Background(), 8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c == nil {
			t.Fatal("expected course, got nil")
		}
		if c.Instructor == nil || c.Instructor.Username != "alice" || c.Instructor.ID != 3 {
			t.Fatalf("unexpected instructor: %+v", c.Instructor)
		}
		if len(c.Steps) != 2 {
			t.Fatalf("expected 2 steps, got %d", len(c.Steps))
		}
		if c.Steps[0].Order != 0 || c.Steps[1].Order != 1 {
			t.Fatalf("steps out of order: %+v", c.Steps)
		}
		if len(c.Steps[0].Blocks) != 1 || c.Steps[0].Blocks[0].Type != models.BlockText {
			t.Fatalf("unexpected blocks: %+v", c.Steps[0].Blocks)
		}
		if len(c.Steps[1].Blocks) != 0 {
			t.Fatalf("expected empty block slice, got %+v", c.Steps[1].Blocks)
		}
	})

	t.Run("not found returns nil, nil", func(t *testing.T) {
		repo, mock, cleanup := newMockCourseRepo(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta(selectCourseByIDSQL)).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows(courseColumns()))

		c, err := repo.GetByID(context.Background(), 99)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != nil {
			t.Fatalf("expected nil course, got %+v", c)
		}
	})
}

func TestCourseRepository_ListPublished(t *testing.T) {
	now := time.Now().UTC()

	repo, mock, cleanup := newMockCourseRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectPublishedCoursesSQL)).
		WillReturnRows(sqlmock.NewRows(courseColumns()).
			AddRow(2, "Advanced Go", "", "advanced", 3, true, now, now, "alice").
			AddRow(1, "Go Basics", "intro", "beginner", 4, true, now.Add(-time.Hour), now, "bob"))

	out, err := repo.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(out))
	}
	if out[0].ID != 2 || out[0].Instructor.Username != "alice" {
		t.Fatalf("unexpected first course: %+v", out[0])
	}
	if out[0].Steps != nil {
		t.Fatalf("listing should not load steps, got %+v", out[0].Steps)
	}
}

func TestCourseRepository_ListByInstructor(t *testing.T) {
	now := time.Now().UTC()

	repo, mock, cleanup := newMockCourseRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectCoursesByInstructorSQL)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "level", "instructor_id", "is_published", "created_at", "updated_at"}).
			AddRow(8, "Go Basics", "intro", "beginner", 3, true, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(selectStepIDsByCourseSQL)).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21).AddRow(22))

	out, err := repo.ListByInstructor(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 course, got %d", len(out))
	}
	if len(out[0].Steps) != 2 || out[0].Steps[0].ID != 21 {
		t.Fatalf("unexpected step refs: %+v", out[0].Steps)
	}
}

func TestCourseRepository_ReplaceSteps(t *testing.T) {
	blocks := `[{"type":"text","content":"hi"}]`

	t.Run("delete, insert, publish in one transaction", func(t *testing.T) {
		repo, mock, cleanup := newMockCourseRepo(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteStepsByCourseSQL)).
			WithArgs(8).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(regexp.QuoteMeta(insertStepSQL)).
			WithArgs(8, "Intro", 0, blocks, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(31, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertStepSQL)).
			WithArgs(8, "Step 2", 1, "[]", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(32, 1))
		mock.ExpectExec(regexp.QuoteMeta(markCoursePublishedSQL)).
			WithArgs(sqlmock.AnyArg(), 8).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		steps := []models.Step{
			{CourseID: 8, Title: "Intro", Order: 0, Blocks: []models.ContentBlock{{Type: "text", Content: "hi"}}},
			{CourseID: 8, Title: "Step 2", Order: 1, Blocks: []models.ContentBlock{}},
		}
		if err := repo.ReplaceSteps(context.Background(), 8, steps); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty step set still clears and publishes", func(t *testing.T) {
		repo, mock, cleanup := newMockCourseRepo(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteStepsByCourseSQL)).
			WithArgs(8).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(regexp.QuoteMeta(markCoursePublishedSQL)).
			WithArgs(sqlmock.AnyArg(), 8).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.ReplaceSteps(context.Background(), 8, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("mid-insert failure rolls back", func(t *testing.T) {
		repo, mock, cleanup := newMockCourseRepo(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteStepsByCourseSQL)).
			WithArgs(8).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(regexp.QuoteMeta(insertStepSQL)).
			WithArgs(8, "Intro", 0, "[]", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.ReplaceSteps(context.Background(), 8, []models.Step{
			{CourseID: 8, Title: "Intro", Order: 0, Blocks: []models.ContentBlock{}},
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
