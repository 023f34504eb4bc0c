package interview

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are an expert interviewer who crafts challenging and insightful interview questions tailored to a candidate's resume and the position they're applying for.

Your questions should:
1. Be directly relevant to the candidate's background and the target position/field
2. Address potential weaknesses identified in their resume analysis
3. Challenge the candidate to demonstrate their skills and expertise
4. Be open-ended to encourage detailed responses
5. Be professionally worded and appropriate for a formal interview setting
6. Avoid generic questions that could be asked to any candidate
7. Focus on behavioral or situational questions that reveal how the candidate has handled real situations
8. Not be easily answered with simple yes/no responses

%s
%s

You must generate ONE interview question only in plain text, with no additional commentary or explanation.`

const feedbackSystemPrompt = `You are an interview analysis assistant. Analyze the user's response to the given interview question. Provide constructive feedback, rate the answer out of 10, check if it's professional, and list strengths and areas for improvement. %s`

const feedbackUserPrompt = `Question: %q

Response: %q

Analyze this interview response in JSON format with the following structure:
{
  "feedback": "Overall feedback with 2-3 specific points",
  "score": <number between 1-10>,
  "isProfessional": <boolean>,
  "strengths": ["strength1", "strength2"],
  "improvements": ["improvement1", "improvement2"]
}`

// resumeContext summarizes the score, grade and top feedback points.
func resumeContext(r *ResumeSummary) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The candidate's resume scored %d/100", r.Score)
	if grade := gradeLetter(r.LetterGrade); grade != "" {
		fmt.Fprintf(&b, " (Grade: %s)", grade)
	}
	b.WriteString(". ")
	if points := nonEmpty(r.FeedbackPoints); len(points) > 0 {
		if len(points) > 3 {
			points = points[:3]
		}
		fmt.Fprintf(&b, "Key feedback points from their resume review: %s. ", strings.Join(points, "; "))
	}
	return strings.TrimSpace(b.String())
}

func jobContext(position, field string) string {
	switch {
	case position != "" && field != "":
		return fmt.Sprintf("The candidate is applying for a %q position in the %s field.", position, field)
	case position != "":
		return fmt.Sprintf("The candidate is applying for a %q position.", position)
	case field != "":
		return fmt.Sprintf("The candidate is applying for a position in the %s field.", field)
	default:
		return ""
	}
}

func questionUserPrompt(count int, previous []string) string {
	if count <= 0 {
		count = 1
	}
	msg := fmt.Sprintf("Generate interview question #%d for this candidate.", count)
	if len(previous) > 0 {
		msg += " Previous questions asked: " + strings.Join(previous, "; ")
	}
	return msg
}

func answerContext(a *AnswerContext) string {
	if a == nil {
		return "No resume data is available."
	}
	score := "unknown"
	if a.Score != nil {
		score = fmt.Sprint(*a.Score)
	}
	feedback := strings.TrimSpace(a.Feedback)
	if feedback == "" {
		feedback = "No specific feedback available"
	}
	return fmt.Sprintf("The user's resume has a score of %s/100. Resume feedback: %s.", score, feedback)
}

func gradeLetter(grade string) string {
	fields := strings.Fields(grade)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
