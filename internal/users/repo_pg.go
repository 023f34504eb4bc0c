package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, username, email, password_hash, full_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Username,
		normalizeEmail(user.Email),
		nullableString(user.PasswordHash),
		nullableString(user.FullName),
		nullableString(user.PictureURL),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	user.Email = normalizeEmail(user.Email)
	if user.SavedResumes == nil {
		user.SavedResumes = []SavedResume{}
	}
	return user, nil
}

func (r *PGRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, "email", normalizeEmail(email))
}

func (r *PGRepo) FindByID(ctx context.Context, id string) (User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *PGRepo) findOne(ctx context.Context, column, value string) (User, error) {
	query := `
SELECT id, username, email, password_hash, full_name, picture_url, created_at, updated_at
FROM users
WHERE ` + column + ` = $1
LIMIT 1`
	var user User
	var passwordHash, fullName, pictureURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&passwordHash,
		&fullName,
		&pictureURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("select user by %s: %w", column, err)
	}
	user.PasswordHash = passwordHash.String
	user.FullName = fullName.String
	user.PictureURL = pictureURL.String

	resumes, err := r.savedResumes(ctx, user.ID)
	if err != nil {
		return User{}, err
	}
	user.SavedResumes = resumes
	return user, nil
}

func (r *PGRepo) savedResumes(ctx context.Context, userID string) ([]SavedResume, error) {
	const query = `
SELECT resume_id, score, letter_grade, feedback, rejection_letter, job_position, job_field, created_at
FROM saved_resumes
WHERE user_id = $1
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select saved resumes: %w", err)
	}
	defer rows.Close()

	out := []SavedResume{}
	for rows.Next() {
		var sr SavedResume
		var feedback []byte
		var jobPosition, jobField sql.NullString
		if err := rows.Scan(&sr.ResumeID, &sr.Score, &sr.LetterGrade, &feedback, &sr.RejectionLetter, &jobPosition, &jobField, &sr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved resume: %w", err)
		}
		if len(feedback) > 0 {
			if err := json.Unmarshal(feedback, &sr.Feedback); err != nil {
				return nil, fmt.Errorf("decode feedback for %s: %w", sr.ResumeID, err)
			}
		}
		if sr.Feedback == nil {
			sr.Feedback = []string{}
		}
		sr.JobPosition = jobPosition.String
		sr.JobField = jobField.String
		out = append(out, sr)
	}
	return out, rows.Err()
}

// Save rewrites the user row and its saved analyses in one transaction.
func (r *PGRepo) Save(ctx context.Context, user User) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const update = `
UPDATE users
SET username = $2, email = $3, password_hash = $4, full_name = $5, picture_url = $6, updated_at = now()
WHERE id = $1`
	res, err := tx.ExecContext(ctx, update,
		user.ID,
		user.Username,
		normalizeEmail(user.Email),
		nullableString(user.PasswordHash),
		nullableString(user.FullName),
		nullableString(user.PictureURL),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n, rerr := res.RowsAffected(); rerr == nil && n == 0 {
		return ErrNotFound
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM saved_resumes WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("clear saved resumes: %w", err)
	}

	const insert = `
INSERT INTO saved_resumes (user_id, resume_id, position, score, letter_grade, feedback, rejection_letter, job_position, job_field, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i, sr := range user.SavedResumes {
		feedback, merr := json.Marshal(nonNil(sr.Feedback))
		if merr != nil {
			return fmt.Errorf("encode feedback: %w", merr)
		}
		createdAt := sr.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err = tx.ExecContext(ctx, insert,
			user.ID,
			sr.ResumeID,
			i,
			sr.Score,
			sr.LetterGrade,
			feedback,
			sr.RejectionLetter,
			nullableString(sr.JobPosition),
			nullableString(sr.JobField),
			createdAt,
		); err != nil {
			return fmt.Errorf("insert saved resume %s: %w", sr.ResumeID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ Store = (*PGRepo)(nil)
