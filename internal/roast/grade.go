package roast

import (
	"regexp"
	"strings"
	"unicode"
)

type gradeBand struct {
	min    int
	letter string
}

var gradeBands = []gradeBand{
	{97, "A+"},
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
	{60, "D-"},
}

// LetterGrade derives the canonical grade for a score.
func LetterGrade(score int) string {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.letter
		}
	}
	return "F"
}

// ApplyFloor clamps score to 0..100 and raises it to the intensity floor.
func ApplyFloor(score int, intensity Intensity) int {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	if floor := intensity.Floor(); score < floor {
		return floor
	}
	return score
}

// gradeTokenRe matches a leading grade letter. A bare letter must be followed by
// a separator or the end so that "A solid effort" is read as prose.
var gradeTokenRe = regexp.MustCompile(`^[A-Fa-f](?:[+-]|\s*(?:$|[(:,.|–—-]))`)

// gradeExplanation returns whatever the model wrote after its own grade letter.
func gradeExplanation(line string) string {
	s := strings.TrimSpace(stripEmphasis(line))
	if loc := gradeTokenRe.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	}
	s = strings.TrimLeft(s, " \t-–—:,.|")
	s = strings.TrimSpace(s)
	if !hasAlnum(s) {
		return ""
	}
	return s
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
