package roast

import "strings"

// Intensity controls prompt tone and the minimum score a resume can receive.
type Intensity string

const (
	IntensityMild   Intensity = "mild"
	IntensityMedium Intensity = "medium"
	IntensitySavage Intensity = "savage"
)

// ParseIntensity maps user input onto a known intensity. Unknown values fall back to medium.
func ParseIntensity(raw string) Intensity {
	switch Intensity(strings.ToLower(strings.TrimSpace(raw))) {
	case IntensityMild:
		return IntensityMild
	case IntensitySavage:
		return IntensitySavage
	default:
		return IntensityMedium
	}
}

// Floor is the lowest score a valid resume may receive at this intensity.
func (i Intensity) Floor() int {
	switch i {
	case IntensityMild:
		return 65
	case IntensitySavage:
		return 45
	default:
		return 55
	}
}

func (i Intensity) String() string {
	return string(i)
}

// Request is the input of a single analysis.
type Request struct {
	ResumeText  string
	Intensity   Intensity
	JobPosition string
	JobField    string
}

// Normalized trims job context and resolves the intensity.
func (r Request) Normalized() Request {
	r.Intensity = ParseIntensity(string(r.Intensity))
	r.JobPosition = strings.TrimSpace(r.JobPosition)
	r.JobField = strings.TrimSpace(r.JobField)
	return r
}

// Result is the typed analysis returned to callers.
type Result struct {
	Score                int      `json:"score"`
	LetterGrade          string   `json:"letterGrade"`
	RejectionLetter      string   `json:"rejectionLetter"`
	FeedbackPoints       []string `json:"feedbackPoints"`
	ConstructiveFeedback []string `json:"constructiveFeedback"`
	IsValidResume        bool     `json:"isValidResume"`
}

// Grade returns the band letter without any trailing explanation.
func (r Result) Grade() string {
	if i := strings.IndexByte(r.LetterGrade, ' '); i > 0 {
		return r.LetterGrade[:i]
	}
	return r.LetterGrade
}
