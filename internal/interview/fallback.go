package interview

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultQuestion is returned when the request itself cannot be read.
const DefaultQuestion = "Tell me about a challenging situation in your professional experience and how you handled it."

var defaultQuestions = []string{
	"Tell me about a challenging project you worked on and how you overcame obstacles.",
	"Describe a situation where you had to learn a new skill quickly. How did you approach it?",
	"What unique skills or perspectives do you bring to a team?",
	"How do you prioritize tasks when dealing with multiple deadlines?",
	"Describe a time when you received constructive criticism. How did you respond to it?",
	"Tell me about a time when you had to work with a difficult team member. How did you handle the situation?",
	"What do you consider your greatest professional achievement and why?",
	"Describe a situation where you had to make a difficult decision with limited information.",
	"How do you stay current with industry trends and developments in your field?",
	"Tell me about a time when you failed at something. What did you learn from the experience?",
}

// repeatPrefixRunes is how much of a candidate question marks it as already asked.
const repeatPrefixRunes = 20

// fallbackPool lists position, field, resume and default questions in that order.
func fallbackPool(req QuestionRequest) []string {
	var pool []string
	if p := strings.TrimSpace(req.JobPosition); p != "" {
		pool = append(pool,
			fmt.Sprintf("What specifically attracts you to a %s role?", p),
			fmt.Sprintf("What skills do you think are most important for success as a %s?", p),
			fmt.Sprintf("Describe a challenge you might face as a %s and how you would address it.", p),
		)
	}
	if f := strings.TrimSpace(req.JobField); f != "" {
		pool = append(pool,
			fmt.Sprintf("How do you stay current with trends in the %s industry?", f),
			fmt.Sprintf("What do you think is the biggest challenge facing the %s industry today?", f),
			fmt.Sprintf("Where do you see the %s field heading in the next 5 years?", f),
		)
	}
	if r := req.ResumeData; r != nil && r.Score > 0 {
		grade := gradeLetter(r.LetterGrade)
		if grade == "" {
			grade = "C"
		}
		pool = append(pool,
			fmt.Sprintf("Your resume scored %d/100. What specific experiences would you highlight that weren't fully captured in your resume?", r.Score),
			fmt.Sprintf("With a resume grade of %s, what areas of your professional background do you think are the strongest?", grade),
			"Based on your resume analysis, what skills have you been developing recently to improve your professional profile?",
		)
	}
	return append(pool, defaultQuestions...)
}

// unused drops questions whose opening already appears in a previous question,
// unless that would drop all of them.
func unused(pool, previous []string) []string {
	if len(previous) == 0 {
		return pool
	}
	out := make([]string, 0, len(pool))
	for _, q := range pool {
		prefix := q
		if r := []rune(q); len(r) > repeatPrefixRunes {
			prefix = string(r[:repeatPrefixRunes])
		}
		asked := false
		for _, prev := range previous {
			if strings.Contains(prev, prefix) {
				asked = true
				break
			}
		}
		if !asked {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}

var inappropriateRe = regexp.MustCompile(`(?i)\b(fuck|shit|ass|bitch|dick|pussy|cock|cunt|whore|slut|bastard|damn|hell|sex|porn)(s|es|ed|ing|er|ers)?\b`)

// isInappropriate matches whole words so "class" or "hello" pass.
func isInappropriate(transcript string) bool {
	return inappropriateRe.MatchString(transcript)
}

func inappropriateFeedback() Feedback {
	return Feedback{
		Feedback:       "Your response contains inappropriate language or content. Please keep your answers professional and respectful.",
		Score:          2,
		IsProfessional: false,
		Strengths:      []string{"None identified due to inappropriate content"},
		Improvements: []string{
			"Remove inappropriate language",
			"Focus on professional communication",
			"Address the question directly with relevant experience",
		},
	}
}

// shortAnswerWords is the length below which an answer counts as brief.
const shortAnswerWords = 20

func fallbackFeedback(transcript string) Feedback {
	if len(strings.Fields(transcript)) < shortAnswerWords {
		return Feedback{
			Feedback:       "Your response is very brief. For interview questions, it's typically better to provide more detailed answers that showcase your experience and skills.",
			Score:          4,
			IsProfessional: true,
			Strengths:      []string{"Concise communication"},
			Improvements: []string{
				"Elaborate with specific examples",
				"Provide more context",
				"Structure answer with situation, task, action, result",
			},
		}
	}
	return Feedback{
		Feedback:       "Your answer addressed the question, but could benefit from more specific examples and structured delivery. Consider using the STAR method (Situation, Task, Action, Result) for interview responses.",
		Score:          6,
		IsProfessional: true,
		Strengths:      []string{"Addressed the question", "Used professional language"},
		Improvements: []string{
			"Include more specific examples",
			"Quantify achievements when possible",
			"Structure your answer more clearly",
		},
	}
}
