package jobs

// Recommendation is one suggested role.
type Recommendation struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	MatchScore  int      `json:"matchScore"`
	Skills      []string `json:"skills"`
	WhyMatch    string   `json:"whyMatch"`
}

// ResumeData carries the resume text; other analysis fields are accepted and ignored.
type ResumeData struct {
	Text        string `json:"text"`
	Score       int    `json:"score"`
	LetterGrade string `json:"letterGrade"`
}

// Request asks for recommendations.
type Request struct {
	ResumeData  *ResumeData `json:"resumeData" binding:"required"`
	JobPosition string      `json:"jobPosition"`
	JobField    string      `json:"jobField"`
}

// Response is the endpoint body.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Source          string           `json:"source"`
	Note            string           `json:"note,omitempty"`
}

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// MaxRecommendations caps how many AI results are returned.
const MaxRecommendations = 2

var fallbackRecommendations = []Recommendation{
	{
		Title:       "Software Engineering Intern",
		Company:     "Google",
		Description: "A program designed for students to gain hands-on experience in software development, contributing to real projects under mentorship.",
		MatchScore:  85,
		Skills:      []string{"Problem-solving", "Python", "Collaborative projects"},
		WhyMatch:    "This role leverages your problem-solving skills and technical knowledge. It offers mentorship and hands-on experience, which is ideal for your career stage.",
	},
	{
		Title:       "Junior Software Developer",
		Company:     "Microsoft",
		Description: "An entry-level position focused on developing and maintaining software solutions, requiring foundational programming skills and a collaborative mindset.",
		MatchScore:  80,
		Skills:      []string{"Critical thinking", "Team collaboration", "Programming"},
		WhyMatch:    "This role suits your technical background and critical thinking skills, offering growth opportunities in a collaborative environment.",
	},
}

// Fallback returns a copy of the canned recommendations.
func Fallback() []Recommendation {
	out := make([]Recommendation, len(fallbackRecommendations))
	for i, r := range fallbackRecommendations {
		r.Skills = append([]string(nil), r.Skills...)
		out[i] = r
	}
	return out
}
