package jobs

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"ragebait-resume/internal/llm"
)

var arrayRe = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

// ParseRecommendations accepts a top-level array, a "recommendations" array,
// the first array-valued property, or an array embedded in prose.
func ParseRecommendations(completion string) []Recommendation {
	content := llm.StripFences(completion)
	if gjson.Valid(content) {
		doc := gjson.Parse(content)
		switch {
		case doc.IsArray():
			return collect(doc)
		case doc.Get("recommendations").IsArray():
			return collect(doc.Get("recommendations"))
		case doc.IsObject():
			var found []Recommendation
			doc.ForEach(func(_, v gjson.Result) bool {
				if v.IsArray() {
					found = collect(v)
					return false
				}
				return true
			})
			return found
		}
		return nil
	}
	if m := arrayRe.FindString(content); m != "" && gjson.Valid(m) {
		return collect(gjson.Parse(m))
	}
	return nil
}

func collect(arr gjson.Result) []Recommendation {
	var out []Recommendation
	for _, item := range arr.Array() {
		if len(out) == MaxRecommendations {
			break
		}
		if !item.IsObject() {
			continue
		}
		rec := Recommendation{
			Title:       strings.TrimSpace(item.Get("title").String()),
			Company:     strings.TrimSpace(item.Get("company").String()),
			Description: strings.TrimSpace(item.Get("description").String()),
			MatchScore:  int(item.Get("matchScore").Int()),
			WhyMatch:    strings.TrimSpace(item.Get("whyMatch").String()),
			Skills:      []string{},
		}
		for _, s := range item.Get("skills").Array() {
			if v := strings.TrimSpace(s.String()); v != "" {
				rec.Skills = append(rec.Skills, v)
			}
		}
		if rec.Title == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}
