package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"ragebait-resume/internal/shared/auth"
	"ragebait-resume/internal/shared/telemetry"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is an authenticated user plus a bearer token.
type Session struct {
	Token string
	User  User
}

type Service struct {
	Store  Store
	Signer *auth.Signer
	// Cost is the bcrypt cost; zero uses bcrypt.DefaultCost.
	Cost int
}

func NewService(store Store, signer *auth.Signer) *Service {
	return &Service{Store: store, Signer: signer}
}

// Register creates a password account and signs the user in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.Store.FindByEmail(ctx, email); err == nil {
		return Session{}, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.Store.Create(ctx, User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return Session{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID, "request_id": telemetry.RequestID(ctx)})
	return s.session(user)
}

// Login checks a password and signs the user in.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	user, err := s.Store.FindByEmail(ctx, req.Email)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if user.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

// Me returns the user with their saved analyses.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Store.FindByID(ctx, userID)
}

// SaveResume appends an analysis, replacing one with the same resumeId.
func (s *Service) SaveResume(ctx context.Context, userID string, req SaveResumeRequest) ([]SavedResume, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := SavedResume{
		ResumeID:        strings.TrimSpace(req.ResumeID),
		Score:           req.Score,
		LetterGrade:     req.LetterGrade,
		Feedback:        nonNil(req.Feedback),
		RejectionLetter: req.RejectionLetter,
		JobPosition:     strings.TrimSpace(req.JobPosition),
		JobField:        strings.TrimSpace(req.JobField),
		CreatedAt:       time.Now().UTC(),
	}
	if entry.ResumeID == "" {
		entry.ResumeID = ulid.Make().String()
	}

	kept := make([]SavedResume, 0, len(user.SavedResumes)+1)
	for _, sr := range user.SavedResumes {
		if sr.ResumeID != entry.ResumeID {
			kept = append(kept, sr)
		}
	}
	user.SavedResumes = append(kept, entry)

	if err := s.Store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user.SavedResumes, nil
}

// DeleteResume removes a saved analysis; unknown IDs are ignored.
func (s *Service) DeleteResume(ctx context.Context, userID, resumeID string) ([]SavedResume, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := make([]SavedResume, 0, len(user.SavedResumes))
	for _, sr := range user.SavedResumes {
		if sr.ResumeID != resumeID {
			kept = append(kept, sr)
		}
	}
	if len(kept) == len(user.SavedResumes) {
		return kept, nil
	}
	user.SavedResumes = kept
	if err := s.Store.Save(ctx, user); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpsertGoogleUser finds the account for a Google identity by email, creating
// it when missing, and signs the user in.
func (s *Service) UpsertGoogleUser(ctx context.Context, p GoogleProfile) (Session, error) {
	email := normalizeEmail(p.Email)
	if email == "" {
		return Session{}, errors.New("google profile has no email")
	}

	user, err := s.Store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		changed := false
		if p.FullName != "" && p.FullName != user.FullName {
			user.FullName = p.FullName
			changed = true
		}
		if p.PictureURL != "" && p.PictureURL != user.PictureURL {
			user.PictureURL = p.PictureURL
			changed = true
		}
		if changed {
			if err := s.Store.Save(ctx, user); err != nil {
				return Session{}, err
			}
		}
	case errors.Is(err, ErrNotFound):
		id := uuid.NewString()
		user, err = s.Store.Create(ctx, User{
			ID:         id,
			Username:   googleUsername(email, id),
			Email:      email,
			FullName:   p.FullName,
			PictureURL: p.PictureURL,
		})
		if err != nil {
			return Session{}, err
		}
		telemetry.Info("user.registered", map[string]any{"user_id": user.ID, "provider": "google", "request_id": telemetry.RequestID(ctx)})
	default:
		return Session{}, err
	}
	return s.session(user)
}

func (s *Service) session(user User) (Session, error) {
	token, err := s.Signer.Sign(auth.Claims{
		Sub:      user.ID,
		Email:    user.Email,
		Username: user.Username,
		Name:     user.FullName,
		Picture:  user.PictureURL,
	})
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

// googleUsername derives a unique handle from the email's local part.
func googleUsername(email, id string) string {
	local, _, _ := strings.Cut(email, "@")
	if len(local) > 22 {
		local = local[:22]
	}
	return local + "-" + strings.ReplaceAll(id, "-", "")[:7]
}
