package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateNormalizesEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("user-1", "roastme", "a@example.com", "hash", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user, err := repo.Create(context.Background(), User{
		ID:           "user-1",
		Username:     "roastme",
		Email:        "  A@Example.com ",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Email != "a@example.com" || !user.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.SavedResumes == nil {
		t.Fatalf("expected empty saved resumes, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), User{ID: "u", Username: "x", Email: "x@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPGRepoFindByEmailLoadsSavedResumes(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "full_name", "picture_url", "created_at", "updated_at",
		}).AddRow("user-1", "roastme", "a@example.com", "hash", nil, "https://pic", now, now))
	mock.ExpectQuery("FROM saved_resumes").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"resume_id", "score", "letter_grade", "feedback", "rejection_letter", "job_position", "job_field", "created_at",
		}).
			AddRow("r1", 72, "C", []byte(`["too long","no metrics"]`), "Dear candidate", "Engineer", nil, now).
			AddRow("r2", 40, "F", nil, "", nil, nil, now))

	user, err := repo.FindByEmail(context.Background(), "A@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user.PictureURL != "https://pic" || user.FullName != "" {
		t.Fatalf("unexpected profile: %+v", user)
	}
	if len(user.SavedResumes) != 2 {
		t.Fatalf("expected 2 saved resumes, got %d", len(user.SavedResumes))
	}
	first := user.SavedResumes[0]
	if first.Score != 72 || first.JobPosition != "Engineer" || len(first.Feedback) != 2 {
		t.Fatalf("unexpected first resume: %+v", first)
	}
	if user.SavedResumes[1].Feedback == nil {
		t.Fatalf("expected empty feedback slice")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM users").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSaveReplacesResumes(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := User{
		ID:       "user-1",
		Username: "roastme",
		Email:    "a@example.com",
		SavedResumes: []SavedResume{
			{ResumeID: "r1", Score: 72, LetterGrade: "C", Feedback: []string{"ok"}},
			{ResumeID: "r2", Score: 10, LetterGrade: "F"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").
		WithArgs("user-1", "roastme", "a@example.com", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM saved_resumes").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO saved_resumes").
		WithArgs("user-1", "r1", 0, 72, "C", []byte(`["ok"]`), "", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO saved_resumes").
		WithArgs("user-1", "r2", 1, 10, "F", []byte(`[]`), "", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Save(context.Background(), user); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveUnknownUserRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), User{ID: "ghost", Username: "g", Email: "g@example.com"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
