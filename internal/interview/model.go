package interview

// ResumeSummary is the slice of an analysis the question prompt uses.
type ResumeSummary struct {
	Score          int      `json:"score"`
	LetterGrade    string   `json:"letterGrade"`
	FeedbackPoints []string `json:"feedbackPoints"`
}

// QuestionRequest asks for the next interview question.
type QuestionRequest struct {
	ResumeData        *ResumeSummary `json:"resumeData"`
	PreviousQuestions []string       `json:"previousQuestions"`
	QuestionCount     int            `json:"questionCount"`
	JobPosition       string         `json:"jobPosition"`
	JobField          string         `json:"jobField"`
}

// AnswerContext is the resume context sent with an answer.
type AnswerContext struct {
	Score    *int   `json:"score"`
	Feedback string `json:"feedback"`
}

// FeedbackRequest is a transcribed answer to score.
type FeedbackRequest struct {
	Transcript string         `json:"transcript" binding:"required"`
	Question   string         `json:"question" binding:"required"`
	ResumeData *AnswerContext `json:"resumeData"`
}

// Feedback is the assessment of one answer.
type Feedback struct {
	Feedback       string   `json:"feedback"`
	Score          int      `json:"score"`
	IsProfessional bool     `json:"isProfessional"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
}

// Source labels where a question or feedback came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
	SourceFilter   Source = "filter"
)
