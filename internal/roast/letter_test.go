package roast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLetterAddsMissingParts(t *testing.T) {
	got := NormalizeLetter("Your resume reads like a grocery list.", "D", "")

	want := "Subject: Your Recent Job Application\n\n" +
		"Dear Applicant,\n\n" +
		"Your resume reads like a grocery list.\n\n" +
		fillerParagraph("D") + "\n\n" +
		"Best regards,\nThe Rejection Bot"
	assert.Equal(t, want, got)
}

func TestNormalizeLetterNumberedListBecomesParagraphs(t *testing.T) {
	raw := "Dear Alex,\n1. Your resume is long.\n2. Your skills are vague.\n3. We hired someone else.\nRegards,\nHR Team"

	got := NormalizeLetter(raw, "C", "Data Analyst")

	want := "Subject: Your Application for the Data Analyst Position\n\n" +
		"Dear Alex,\n\n" +
		"Your resume is long.\n\n" +
		"Your skills are vague.\n\n" +
		"We hired someone else.\n\n" +
		"Regards,\nHR Team"
	assert.Equal(t, want, got)
}

func TestNormalizeLetterCollapsesBlankLinesAndPunctuation(t *testing.T) {
	raw := "Dear A,\n\n\n\nYou were late .\n\n\n\nWe said no !\nBest,\nBot"

	got := NormalizeLetter(raw, "F", "")

	assert.Equal(t, "Subject: Your Recent Job Application\n\nDear A,\n\nYou were late.\n\nWe said no!\n\nBest,\nBot", got)
}

func TestNormalizeLetterKeepsExistingSubject(t *testing.T) {
	raw := "**Subject:** Re your application\nHi there, thanks for applying.\nWe went another way.\nCheers,\nTeam"

	got := NormalizeLetter(raw, "B", "Designer")

	assert.Equal(t, "Subject: Re your application\n\nHi there,\n\nthanks for applying.\nWe went another way.\n\n"+
		fillerParagraph("B")+"\n\nCheers,\nTeam", got)
}

func TestNormalizeLetterInlineNumbering(t *testing.T) {
	raw := "Dear Applicant,\nHere is why: 1. No metrics. 2. Typos. 3. Too long.\nSincerely,\nBot"

	got := NormalizeLetter(raw, "F", "")

	assert.Equal(t, "Subject: Your Recent Job Application\n\nDear Applicant,\n\nHere is why:\n\nNo metrics.\n\nTypos.\n\nToo long.\n\nSincerely,\nBot", got)
}

func TestNormalizeLetterIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"One line only.",
		"Dear Alex,\n1. a\n2. b\nRegards,\nHR",
		"Hello,\nBody here\n\n\nMore body\nThank you,\nMe",
		"Subject: Hi\nDear X, text.\nBest regards,\nY",
		"Greetings!\n- bullet one\n- bullet two",
	}
	for _, in := range inputs {
		once := NormalizeLetter(in, "C-", "QA")
		assert.Equal(t, once, NormalizeLetter(once, "C-", "QA"), "input %q", in)
	}
}
