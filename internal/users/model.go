package users

import "time"

// User is an account with its saved analyses.
type User struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	FullName     string        `json:"fullName,omitempty"`
	PictureURL   string        `json:"pictureUrl,omitempty"`
	SavedResumes []SavedResume `json:"savedResumes"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// SavedResume is an analysis a user chose to keep.
type SavedResume struct {
	ResumeID        string    `json:"resumeId"`
	Score           int       `json:"score"`
	LetterGrade     string    `json:"letterGrade"`
	Feedback        []string  `json:"feedback"`
	RejectionLetter string    `json:"rejectionLetter"`
	JobPosition     string    `json:"jobPosition,omitempty"`
	JobField        string    `json:"jobField,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Profile is the public view of a user returned with a session token.
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"fullName,omitempty"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

// Account is the profile plus saved analyses, served by /auth/me.
// SavedResumes is always present, empty when nothing is saved.
type Account struct {
	Profile
	SavedResumes []SavedResume `json:"savedResumes"`
}

// Profile strips credentials from u.
func (u User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		PictureURL: u.PictureURL,
	}
}

func (u User) Account() Account {
	a := Account{Profile: u.Profile(), SavedResumes: u.SavedResumes}
	if a.SavedResumes == nil {
		a.SavedResumes = []SavedResume{}
	}
	return a
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SaveResumeRequest is the body of POST /auth/save-resume.
type SaveResumeRequest struct {
	ResumeID        string   `json:"resumeId"`
	Score           int      `json:"score" binding:"min=0,max=100"`
	LetterGrade     string   `json:"letterGrade" binding:"required"`
	Feedback        []string `json:"feedback"`
	RejectionLetter string   `json:"rejectionLetter"`
	JobPosition     string   `json:"jobPosition"`
	JobField        string   `json:"jobField"`
}

// GoogleProfile is the identity returned by Google sign-in.
type GoogleProfile struct {
	Email      string
	FullName   string
	PictureURL string
}
