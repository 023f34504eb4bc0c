package llm

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"ragebait-resume/internal/roast"
)

// DefaultPromptMaxRunes bounds the resume text sent to the model.
const DefaultPromptMaxRunes = 12000

//go:embed prompts/roast.yaml
var roastYAML []byte

type intensityPrompt struct {
	Tone       string `yaml:"tone"`
	ScoreRange string `yaml:"scoreRange"`
	GradeRange string `yaml:"gradeRange"`
	Style      string `yaml:"style"`
}

type roastTemplates struct {
	Version     string                     `yaml:"version"`
	System      string                     `yaml:"system"`
	User        string                     `yaml:"user"`
	JobContext  string                     `yaml:"jobContext"`
	Intensities map[string]intensityPrompt `yaml:"intensities"`

	system     *template.Template
	user       *template.Template
	jobContext *template.Template
}

var loadRoastTemplates = sync.OnceValues(func() (*roastTemplates, error) {
	return parseRoastTemplates(roastYAML)
})

func parseRoastTemplates(raw []byte) (*roastTemplates, error) {
	var t roastTemplates
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse roast prompt: %w", err)
	}
	for _, in := range []roast.Intensity{roast.IntensityMild, roast.IntensityMedium, roast.IntensitySavage} {
		if _, ok := t.Intensities[in.String()]; !ok {
			return nil, fmt.Errorf("roast prompt missing intensity %q", in)
		}
	}
	var err error
	if t.system, err = template.New("system").Option("missingkey=error").Parse(t.System); err != nil {
		return nil, fmt.Errorf("parse system template: %w", err)
	}
	if t.user, err = template.New("user").Option("missingkey=error").Parse(t.User); err != nil {
		return nil, fmt.Errorf("parse user template: %w", err)
	}
	if t.jobContext, err = template.New("jobContext").Option("missingkey=error").Parse(t.JobContext); err != nil {
		return nil, fmt.Errorf("parse job context template: %w", err)
	}
	return &t, nil
}

// RoastInput is everything the roast prompt depends on.
type RoastInput struct {
	ResumeText  string
	Intensity   roast.Intensity
	JobPosition string
	JobField    string
	// MaxRunes truncates ResumeText; zero means DefaultPromptMaxRunes.
	MaxRunes int
}

// Prompt is a rendered system and user message pair.
type Prompt struct {
	Version string
	System  string
	User    string
}

// Messages returns the prompt as chat messages.
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: RoleSystem, Content: p.System},
		{Role: RoleUser, Content: p.User},
	}
}

// String joins the messages for display.
func (p Prompt) String() string {
	return RoleSystem + ": " + p.System + "\n\n" + RoleUser + ": " + p.User
}

// BuildRoastPrompt renders the analysis prompt for the given intensity and job context.
func BuildRoastPrompt(in RoastInput) (Prompt, error) {
	t, err := loadRoastTemplates()
	if err != nil {
		return Prompt{}, err
	}
	intensity := roast.ParseIntensity(in.Intensity.String())
	tone := t.Intensities[intensity.String()]

	maxRunes := in.MaxRunes
	if maxRunes <= 0 {
		maxRunes = DefaultPromptMaxRunes
	}

	position := strings.TrimSpace(in.JobPosition)
	field := strings.TrimSpace(in.JobField)
	jobContext := ""
	if position != "" || field != "" {
		jobContext, err = render(t.jobContext, map[string]any{
			"JobPosition": position,
			"JobField":    field,
		})
		if err != nil {
			return Prompt{}, err
		}
	}

	data := map[string]any{
		"Tone":       tone.Tone,
		"ScoreRange": tone.ScoreRange,
		"GradeRange": tone.GradeRange,
		"Style":      tone.Style,
		"JobContext": jobContext,
		"ResumeText": TruncateRunes(strings.TrimSpace(in.ResumeText), maxRunes),
	}
	system, err := render(t.system, data)
	if err != nil {
		return Prompt{}, err
	}
	user, err := render(t.user, data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Version: t.Version, System: system, User: user}, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// TruncateRunes cuts s to at most max runes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
