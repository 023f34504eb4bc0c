package roast

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Section names a block of the completion that is extracted into the result.
type Section string

const (
	SectionLetter       Section = "rejectionLetter"
	SectionFeedback     Section = "feedbackPoints"
	SectionConstructive Section = "constructiveFeedback"
)

// Tier identifies which extraction strategy produced a section.
type Tier int

const (
	TierPrecise Tier = iota
	TierLineScan
	TierHeuristic
)

func (t Tier) String() string {
	switch t {
	case TierPrecise:
		return "precise"
	case TierLineScan:
		return "line_scan"
	default:
		return "heuristic"
	}
}

type marker struct {
	name    string
	pattern string
	section Section
	lead    *regexp.Regexp
}

func newMarker(name, pattern string, sec Section) marker {
	return marker{
		name:    name,
		pattern: pattern,
		section: sec,
		lead:    regexp.MustCompile(`(?i)^` + pattern),
	}
}

var markers = []marker{
	newMarker("IS THIS A RESUME", `IS\s+THIS\s+A\s+RESUME\s*\?`, ""),
	newMarker("SCORE", `SCORE`, ""),
	newMarker("LETTER GRADE", `LETTER\s+GRADE`, ""),
	newMarker("REJECTION LETTER", `REJECTION\s+LETTER`, SectionLetter),
	newMarker("FEEDBACK POINTS", `FEEDBACK\s+POINTS`, SectionFeedback),
	newMarker("CONSTRUCTIVE FEEDBACK", `CONSTRUCTIVE\s+FEEDBACK`, SectionConstructive),
}

var preciseHeads = buildPreciseHeads()

func buildPreciseHeads() map[Section]*regexp.Regexp {
	out := make(map[Section]*regexp.Regexp)
	for _, m := range markers {
		if m.section == "" {
			continue
		}
		out[m.section] = regexp.MustCompile(`(?im)^[ \t>#*_]*(?:\d{1,2}[.)][ \t]*)?` + m.pattern + `[ \t*_]*:[*_]*`)
	}
	return out
}

var (
	headingTrimRe = regexp.MustCompile(`^[\s>#*_]*(?:\d{1,2}[.)]\s*)?`)
	listLeadRe    = regexp.MustCompile(`^[\s>]*(?:\d{1,2}[.)]|[-*+•●▪◦‣·►▸])\s`)
)

type heading struct {
	marker  marker
	start   int
	lineEnd int
	rest    string
}

// document is a completion split into lines with its marker headings located.
type document struct {
	text     string
	lines    []string
	headings []heading
}

func newDocument(completion string) *document {
	text := strings.ReplaceAll(completion, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	d := &document{text: text, lines: strings.Split(text, "\n")}
	offset := 0
	for _, line := range d.lines {
		if m, rest, ok := matchHeading(line); ok {
			d.headings = append(d.headings, heading{
				marker:  m,
				start:   offset,
				lineEnd: offset + len(line),
				rest:    rest,
			})
		}
		offset += len(line) + 1
	}
	return d
}

// matchHeading reports whether line opens one of the known marker blocks.
// A heading is the marker name followed by nothing, or by ':', '?' or a dash.
// On a numbered or bulleted line only a section marker counts, and only when it
// stands alone or is written in capitals.
func matchHeading(line string) (marker, string, bool) {
	listed := listLeadRe.MatchString(line)
	trimmed := headingTrimRe.ReplaceAllString(line, "")
	if listed {
		trimmed = stripListMarker(strings.TrimLeft(trimmed, " \t>"))
	}
	norm := strings.ToUpper(strings.Join(strings.Fields(trimmed), " "))
	for _, m := range markers {
		if !strings.HasPrefix(norm, m.name) {
			continue
		}
		rest := strings.TrimLeft(norm[len(m.name):], " *_")
		if rest != "" {
			r, _ := utf8.DecodeRuneInString(rest)
			if r != ':' && r != '?' && r != '-' && r != '–' && r != '—' {
				continue
			}
		}
		remainder := headingRemainder(trimmed, m)
		if listed && (m.section == "" || (hasAlnum(remainder) && !writtenInCapitals(trimmed, m))) {
			return marker{}, "", false
		}
		return m, remainder, true
	}
	return marker{}, "", false
}

func writtenInCapitals(trimmed string, m marker) bool {
	loc := m.lead.FindStringIndex(trimmed)
	if loc == nil {
		return false
	}
	head := trimmed[loc[0]:loc[1]]
	return head == strings.ToUpper(head)
}

// headingRemainder returns the original-case text after the marker on a heading line.
func headingRemainder(trimmed string, m marker) string {
	loc := m.lead.FindStringIndex(trimmed)
	if loc == nil {
		return ""
	}
	rest := trimmed[loc[1]:]
	return strings.TrimSpace(strings.TrimLeft(rest, " \t*_:?-–—"))
}

func isHeadingText(s string) bool {
	_, _, ok := matchHeading(s)
	return ok
}

// isBareHeading reports whether an item is only an echoed heading, such as
// "FEEDBACK POINTS:" or "SCORE: 45", rather than a point that mentions one.
func isBareHeading(s string) bool {
	m, rest, ok := matchHeading(s)
	if !ok {
		return false
	}
	return !hasAlnum(rest) || (m.section == "" && len(strings.Fields(rest)) <= 3)
}

// precise slices from a "<MARKER>:" head to the next heading line. The head
// must itself be a heading line.
func (d *document) precise(sec Section) string {
	for _, loc := range preciseHeads[sec].FindAllStringIndex(d.text, -1) {
		if !d.headingAt(loc[0]) {
			continue
		}
		end := len(d.text)
		for _, h := range d.headings {
			if h.start > loc[0] {
				end = h.start
				break
			}
		}
		if loc[1] >= end {
			return ""
		}
		return strings.TrimSpace(d.text[loc[1]:end])
	}
	return ""
}

func (d *document) headingAt(offset int) bool {
	for _, h := range d.headings {
		if h.start == offset {
			return true
		}
	}
	return false
}

// lineScan finds the marker among individual lines, tolerating a missing colon
// or markdown decoration, and collects lines up to the next heading.
func (d *document) lineScan(sec Section) string {
	for i, h := range d.headings {
		if h.marker.section != sec {
			continue
		}
		end := len(d.text)
		if i+1 < len(d.headings) {
			end = d.headings[i+1].start
		}
		var b strings.Builder
		b.WriteString(h.rest)
		if h.lineEnd < end {
			b.WriteString("\n")
			b.WriteString(d.text[h.lineEnd:end])
		}
		if body := strings.TrimSpace(b.String()); body != "" {
			return body
		}
	}
	return ""
}

// contentLines returns every non-empty line that is not a marker heading.
func (d *document) contentLines() []string {
	out := make([]string, 0, len(d.lines))
	for _, line := range d.lines {
		t := strings.TrimSpace(line)
		if t == "" || isHeadingText(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

var inlineListRe = regexp.MustCompile(`\s+\(?\d{1,2}[.)]\s+`)

// splitItems turns a section body into candidate list items. Unmarked lines
// continue the previous item when the block is a bullet or numbered list.
func splitItems(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if numberingRe.MatchString(t) && inlineListRe.MatchString(t) {
			lines = append(lines, splitInlineList(t)...)
			continue
		}
		lines = append(lines, t)
	}

	listy := false
	for _, l := range lines {
		if isListLine(l) {
			listy = true
			break
		}
	}
	if !listy {
		return lines
	}

	var items []string
	for _, l := range lines {
		if isListLine(l) || len(items) == 0 {
			items = append(items, l)
			continue
		}
		items[len(items)-1] += " " + l
	}
	return items
}

// splitInlineList breaks "1. foo 2. bar" into bulleted items.
func splitInlineList(line string) []string {
	parts := inlineListRe.Split(numberingRe.ReplaceAllString(line, ""), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, "- "+p)
		}
	}
	return out
}

func isListLine(line string) bool {
	s := strings.TrimSpace(stripEmphasis(strings.TrimSpace(line)))
	s = strings.TrimLeftFunc(s, isDecoration)
	return numberingRe.MatchString(s) || bulletRe.MatchString(s) || instructionRe.MatchString(s)
}

var adviceWordRe = regexp.MustCompile(`(?i)\b(consider|improve|add|include|highlight|quantify|focus|remove|tailor|try|should|use)\b`)

func looksLikeAdvice(line string) bool {
	return adviceWordRe.MatchString(line)
}
