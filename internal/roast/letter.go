package roast

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	defaultGreeting  = "Dear Applicant,"
	defaultSignature = "Best regards,\nThe Rejection Bot"
	defaultSubject   = "Subject: Your Recent Job Application"
	defaultLetterBody = "Thank you for your interest in this position. After reviewing your resume, " +
		"we have decided to move forward with candidates whose experience more closely matches our needs."
	closingScanLines = 4
	maxClosingLength = 40
)

var (
	salutationRe   = regexp.MustCompile(`(?i)^(dear|hello|hi|greetings|hey)\b`)
	subjectRe      = regexp.MustCompile(`(?i)^(subject|re)\s*:`)
	closingRe      = regexp.MustCompile(`(?i)^(?:(?:best|kind|warm|warmest|with best)\s+)?(?:regards|wishes)\b|^(?:sincerely|cheers|respectfully|best|yours truly|yours sincerely|thanks|thank you)(?:\s+\w+)?\s*[,!.]?$`)
	numberedLineRe = regexp.MustCompile(`^\d{1,2}[.)]\s+`)
	inlineNumberRe = regexp.MustCompile(`(?:^|\s)\d{1,2}[.)]\s+`)
	ruleLineRe     = regexp.MustCompile("^(?:```.*|-{3,}|\\*{3,}|_{3,})$")

	trailingSpaceRe    = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe         = regexp.MustCompile(`\n{3,}`)
	spaceBeforePunctRe = regexp.MustCompile(`[ \t]+([,.;:!?])`)
)

// NormalizeLetter shapes letter text into subject, salutation, body paragraphs
// and closing. grade is mentioned in the filler paragraph when the body is thin.
// Normalizing an already normalized letter returns it unchanged.
func NormalizeLetter(raw, grade, jobPosition string) string {
	lines := letterLines(raw)

	subject := ""
	seen := 0
	for i, l := range lines {
		if l == "" {
			continue
		}
		if subjectRe.MatchString(l) {
			subject = l
			lines = append(lines[:i:i], lines[i+1:]...)
			break
		}
		if seen++; seen == 3 {
			break
		}
	}
	if subject == "" {
		subject = subjectFor(jobPosition)
	}

	greeting := defaultGreeting
	for i, l := range lines {
		if l == "" {
			continue
		}
		if salutationRe.MatchString(l) {
			var rest string
			greeting, rest = splitGreeting(l)
			lines[i] = rest
		}
		break
	}

	closing := defaultSignature
	if ci := findClosing(lines); ci >= 0 {
		var sig []string
		for _, l := range lines[ci:] {
			if l != "" {
				sig = append(sig, l)
			}
		}
		closing = strings.Join(sig, "\n")
		lines = lines[:ci]
	}

	body := bodyParagraphs(lines)
	if 1+len(body) < 3 {
		filler := fillerParagraph(grade)
		if !containsString(body, filler) {
			body = append(body, filler)
		}
	}

	parts := make([]string, 0, len(body)+3)
	parts = append(parts, subject, greeting)
	parts = append(parts, body...)
	parts = append(parts, closing)
	return tidyLetter(strings.Join(parts, "\n\n"))
}

func subjectFor(jobPosition string) string {
	if jp := strings.TrimSpace(jobPosition); jp != "" {
		return fmt.Sprintf("Subject: Your Application for the %s Position", jp)
	}
	return defaultSubject
}

func fillerParagraph(grade string) string {
	return fmt.Sprintf("After careful review, your resume earned a grade of %s. "+
		"While it shows some potential, it did not stand out against the other applications we received.", grade)
}

// letterLines normalizes line endings and strips markdown from each line.
func letterLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	src := strings.Split(raw, "\n")
	out := make([]string, 0, len(src))
	for _, l := range src {
		t := strings.TrimSpace(stripEmphasis(strings.TrimSpace(l)))
		if ruleLineRe.MatchString(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func splitGreeting(line string) (string, string) {
	if i := strings.IndexByte(line, ','); i >= 0 {
		return line[:i+1], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// findClosing locates a sign-off among the last few non-empty lines.
func findClosing(lines []string) int {
	checked := 0
	for i := len(lines) - 1; i >= 0 && checked < closingScanLines; i-- {
		if lines[i] == "" {
			continue
		}
		checked++
		if len(lines[i]) <= maxClosingLength && closingRe.MatchString(lines[i]) {
			return i
		}
	}
	return -1
}

func bodyParagraphs(lines []string) []string {
	numbered := 0
	for _, l := range lines {
		if numberedLineRe.MatchString(l) {
			numbered++
		}
	}

	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, l := range lines {
		if l == "" {
			flush()
			continue
		}
		if numbered >= 2 && numberedLineRe.MatchString(l) {
			flush()
			l = numberedLineRe.ReplaceAllString(l, "")
		}
		cur = append(cur, l)
	}
	flush()

	out := make([]string, 0, len(paras))
	for _, p := range paras {
		out = append(out, splitInlineNumbering(p)...)
	}
	return out
}

// splitInlineNumbering turns "intro: 1. a 2. b" into separate paragraphs.
func splitInlineNumbering(p string) []string {
	locs := inlineNumberRe.FindAllStringIndex(p, -1)
	if len(locs) < 2 {
		return []string{p}
	}
	var out []string
	if head := strings.TrimSpace(p[:locs[0][0]]); head != "" {
		out = append(out, head)
	}
	for i, loc := range locs {
		end := len(p)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if seg := strings.TrimSpace(p[loc[1]:end]); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func tidyLetter(s string) string {
	s = trailingSpaceRe.ReplaceAllString(s, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = spaceBeforePunctRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
