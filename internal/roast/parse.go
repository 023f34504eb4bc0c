package roast

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultScore    = 50
	DefaultMaxItems = 5
)

var (
	gateRe       = regexp.MustCompile(`(?i)IS\s+THIS\s+A\s+RESUME\s*\?[\s*_:#]*(YES|NO)\b`)
	scoreLineRe  = regexp.MustCompile(`(?im)^[ \t>#*_-]*SCORE[ \t*_]*:[ \t*_]*(\d{1,3})`)
	scoreLooseRe = regexp.MustCompile(`(?i)\bSCORE[ \t*_]*:[ \t*_]*(\d{1,3})`)
	gradeLineRe  = regexp.MustCompile(`(?im)^[ \t>#*_-]*LETTER\s+GRADE[ \t*_]*:(.*)$`)
)

var (
	fallbackFeedback = []string{
		"The resume did not give the reviewer enough concrete detail to assess your experience.",
	}
	fallbackConstructive = []string{
		"Quantify your achievements with specific numbers and outcomes.",
		"Tailor your resume to the role you are applying for.",
		"Start each bullet point with a strong action verb.",
	}
)

// Options configures a Parser.
type Options struct {
	// Blocklist holds echoed header strings to drop from list sections.
	Blocklist []string
	// MaxItems caps feedback and constructive lists.
	MaxItems int
}

// Report describes how a completion was parsed.
type Report struct {
	GateFound  bool
	ScoreFound bool
	RawScore   int
	Tiers      map[Section]Tier
}

// Degraded reports whether any section needed a fallback tier.
func (r Report) Degraded() bool {
	for _, t := range r.Tiers {
		if t != TierPrecise {
			return true
		}
	}
	return false
}

// DegradedSections lists "section:tier" pairs for every fallback, sorted.
func (r Report) DegradedSections() []string {
	var out []string
	for sec, t := range r.Tiers {
		if t != TierPrecise {
			out = append(out, string(sec)+":"+t.String())
		}
	}
	sort.Strings(out)
	return out
}

// Parser turns a raw completion into a Result. It never fails.
type Parser struct {
	filter   itemFilter
	maxItems int
}

// NewParser builds a Parser; zero Options select the defaults.
func NewParser(opts Options) *Parser {
	if opts.Blocklist == nil {
		opts.Blocklist = DefaultBlocklist
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return &Parser{filter: newItemFilter(opts.Blocklist), maxItems: opts.MaxItems}
}

var defaultParser = NewParser(Options{})

// Parse runs the default parser.
func Parse(completion string, req Request) (Result, Report) {
	return defaultParser.Parse(completion, req)
}

// Parse extracts the analysis from completion. req supplies the intensity
// floor and the job position used in the letter subject.
func (p *Parser) Parse(completion string, req Request) (Result, Report) {
	req = req.Normalized()
	report := Report{Tiers: make(map[Section]Tier, 3)}

	// any NO answer wins over earlier or later YES answers
	for _, m := range gateRe.FindAllStringSubmatch(completion, -1) {
		report.GateFound = true
		if strings.EqualFold(m[1], "NO") {
			return NotAResume(), report
		}
	}

	raw := DefaultScore
	if m := scoreLineRe.FindStringSubmatch(completion); m != nil {
		raw, _ = strconv.Atoi(m[1])
		report.ScoreFound = true
	} else if m := scoreLooseRe.FindStringSubmatch(completion); m != nil {
		raw, _ = strconv.Atoi(m[1])
		report.ScoreFound = true
	}
	report.RawScore = raw

	score := ApplyFloor(raw, req.Intensity)
	grade := LetterGrade(score)
	letterGrade := grade
	if m := gradeLineRe.FindStringSubmatch(completion); m != nil {
		if expl := gradeExplanation(m[1]); expl != "" {
			letterGrade = grade + " " + expl
		}
	}

	doc := newDocument(completion)
	letter, letterTier := p.extractLetter(doc)
	feedback, feedbackTier := p.extractList(doc, SectionFeedback)
	constructive, constructiveTier := p.extractList(doc, SectionConstructive)
	report.Tiers[SectionLetter] = letterTier
	report.Tiers[SectionFeedback] = feedbackTier
	report.Tiers[SectionConstructive] = constructiveTier

	return Result{
		Score:                score,
		LetterGrade:          letterGrade,
		RejectionLetter:      NormalizeLetter(letter, grade, req.JobPosition),
		FeedbackPoints:       feedback,
		ConstructiveFeedback: constructive,
		IsValidResume:        true,
	}, report
}

func (p *Parser) extractLetter(doc *document) (string, Tier) {
	if body := doc.precise(SectionLetter); hasAlnum(body) {
		return body, TierPrecise
	}
	if body := doc.lineScan(SectionLetter); hasAlnum(body) {
		return body, TierLineScan
	}
	var prose []string
	for _, l := range doc.contentLines() {
		if !isListLine(l) {
			prose = append(prose, l)
		}
	}
	if len(prose) == 0 {
		return defaultLetterBody, TierHeuristic
	}
	return strings.Join(prose, "\n"), TierHeuristic
}

func (p *Parser) extractList(doc *document, sec Section) ([]string, Tier) {
	advice := sec == SectionConstructive
	if body := doc.precise(sec); body != "" {
		if items := finalizeItems(splitItems(body), advice, p.filter, p.maxItems); len(items) > 0 {
			return items, TierPrecise
		}
	}
	if body := doc.lineScan(sec); body != "" {
		if items := finalizeItems(splitItems(body), advice, p.filter, p.maxItems); len(items) > 0 {
			return items, TierLineScan
		}
	}

	lines := doc.contentLines()
	if advice {
		var hints []string
		for _, l := range lines {
			if looksLikeAdvice(l) {
				hints = append(hints, l)
			}
		}
		if items := finalizeItems(hints, true, p.filter, p.maxItems); len(items) > 0 {
			return items, TierHeuristic
		}
		return cloneStrings(fallbackConstructive), TierHeuristic
	}

	if len(lines) > p.maxItems {
		lines = lines[:p.maxItems]
	}
	if items := finalizeItems(lines, false, p.filter, p.maxItems); len(items) > 0 {
		return items, TierHeuristic
	}
	return cloneStrings(fallbackFeedback), TierHeuristic
}

func cloneStrings(in []string) []string {
	return append([]string(nil), in...)
}
