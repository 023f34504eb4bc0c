package roast

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emphasisRe     = regexp.MustCompile("\\*\\*|__|~~|`")
	italicRe       = regexp.MustCompile(`(^|[^\w*])\*([^*\s][^*\n]*?)\*`)
	headingHashRe  = regexp.MustCompile(`^#{1,6}\s*`)
	instructionRe  = regexp.MustCompile(`^\[[^\]\n]{1,80}\]\s*`)
	numberingRe    = regexp.MustCompile(`^\(?\d{1,2}[.)](?:\s+|$)`)
	bulletRe       = regexp.MustCompile(`^(?:[•●▪◦‣·►▸]\s*|[-*+–—>]\s+)`)
	advicePrefixRe = regexp.MustCompile(`(?i)^(?:improvement|suggestion|tip|advice|recommended|recommendation)s?\s*:\s*`)
	spaceRunRe     = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

// DefaultBlocklist lists header strings the model tends to echo from priming examples.
// Entries ending in ':' drop an item only when the item is exactly that header;
// other entries drop any item containing them.
var DefaultBlocklist = []string{
	"Vedant Palsaniya's Resume Review",
	"Summary of Qualifications:",
	"Work & Volunteer Experience:",
	"Co-Curricular Involvements:",
	"Boy Scouts of America:",
	"National High School Honor Society:",
	"Python Classes & Circuitry Club:",
	"Education:",
	"Awards & Achievements:",
	"Overall Feedback:",
	"Improvements:",
	"Suggestions:",
	"Recommendations:",
	"Here are some improvements",
	"Here are suggestions",
}

// CleanItem strips markdown, list markers, instruction markers and decorative
// emoji from a single feedback line. Applying it twice yields the same string.
func CleanItem(s string) string {
	return cleanItem(s, false)
}

// CleanSuggestion is CleanItem plus removal of advice prefixes such as "TIP:".
func CleanSuggestion(s string) string {
	return cleanItem(s, true)
}

func cleanItem(s string, stripAdvice bool) string {
	// passes only delete text or normalize spaces, so this reaches a fixed point
	for prev := ""; s != prev; {
		prev = s
		s = strings.TrimSpace(s)
		s = stripEmphasis(s)
		s = instructionRe.ReplaceAllString(s, "")
		s = stripListMarker(s)
		if stripAdvice {
			s = advicePrefixRe.ReplaceAllString(s, "")
		}
		s = trimDecoration(s)
		s = spaceRunRe.ReplaceAllString(s, " ")
	}
	return s
}

func stripEmphasis(s string) string {
	s = headingHashRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	return italicRe.ReplaceAllString(s, "$1$2")
}

func stripListMarker(s string) string {
	if loc := numberingRe.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	if loc := bulletRe.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	return s
}

func trimDecoration(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || isDecoration(r)
	})
}

func isDecoration(r rune) bool {
	switch {
	case r == 0xFE0F || r == 0x200D || r == 0x20E3:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	}
	return unicode.Is(unicode.So, r)
}

type itemFilter struct {
	exact    map[string]struct{}
	contains []string
}

func newItemFilter(blocklist []string) itemFilter {
	f := itemFilter{exact: make(map[string]struct{})}
	for _, entry := range blocklist {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e == "" {
			continue
		}
		if strings.HasSuffix(e, ":") {
			f.exact[e] = struct{}{}
			f.exact[strings.TrimSuffix(e, ":")] = struct{}{}
			continue
		}
		f.contains = append(f.contains, e)
	}
	return f
}

func (f itemFilter) drop(item string) bool {
	lower := strings.ToLower(item)
	if _, ok := f.exact[lower]; ok {
		return true
	}
	for _, e := range f.contains {
		if strings.Contains(lower, e) {
			return true
		}
	}
	// short sub-headings like "Key issues:"
	return strings.HasSuffix(lower, ":") && len(strings.Fields(lower)) <= 5
}

// finalizeItems cleans, filters, deduplicates and caps a list of raw lines.
func finalizeItems(raw []string, stripAdvice bool, filter itemFilter, limit int) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, limit)
	for _, line := range raw {
		item := cleanItem(line, stripAdvice)
		if item == "" || !hasAlnum(item) || isBareHeading(item) || filter.drop(item) {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
