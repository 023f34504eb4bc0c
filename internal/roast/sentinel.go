package roast

const notAResumeLetter = "Subject: Your Recent Job Application\n\n" +
	"Dear Applicant,\n\n" +
	"Thank you for your submission. Unfortunately, the document you uploaded does not appear to be a resume, " +
	"so we were unable to evaluate it for this position.\n\n" +
	"If you would like a review, please upload a resume that describes your work experience and skills.\n\n" +
	"Best regards,\nThe Rejection Bot"

var (
	notAResumeFeedback = []string{
		"The uploaded document does not appear to be a resume.",
		"No work experience, education or skills sections were found.",
	}
	notAResumeImprovements = []string{
		"Upload your resume as a PDF or plain text file.",
		"Make sure the document lists your experience, education and skills.",
	}
)

// NotAResume returns the fixed result used when the document is not a resume.
// Every call returns an equal value with freshly allocated slices.
func NotAResume() Result {
	return Result{
		Score:                0,
		LetterGrade:          "F-",
		RejectionLetter:      notAResumeLetter,
		FeedbackPoints:       cloneStrings(notAResumeFeedback),
		ConstructiveFeedback: cloneStrings(notAResumeImprovements),
		IsValidResume:        false,
	}
}
