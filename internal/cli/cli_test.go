package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/shared/config"
)

const resumeText = "Jane Doe\nSoftware Engineer\nExperience: built things at Acme for 3 years.\nSkills: Go, SQL"

const completion = `IS THIS A RESUME? YES
SCORE: 20
LETTER GRADE: F Needs work
REJECTION LETTER:
Dear Jane,

We have reviewed your application.

Best regards,
The Rejection Bot
FEEDBACK POINTS:
1. Vague experience
CONSTRUCTIVE FEEDBACK:
1. Add numbers`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseCommandAppliesFloor(t *testing.T) {
	path := writeTemp(t, "completion.txt", completion)

	out, err := run(t, Deps{}, "parse", path, "--intensity", "savage")
	require.NoError(t, err)

	var got parseOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 45, got.Result.Score)
	assert.Equal(t, 20, got.Report.RawScore)
	assert.True(t, got.Report.GateFound)
	assert.Equal(t, []string{"Vague experience"}, got.Result.FeedbackPoints)
}

func TestPromptCommandIncludesResume(t *testing.T) {
	path := writeTemp(t, "resume.txt", resumeText)

	out, err := run(t, Deps{}, "prompt", path, "--job-position", "Backend Engineer")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Backend Engineer")
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeTemp(t, "resume.txt", resumeText)
	var calls int
	client := llm.ClientFunc(func(_ context.Context, req llm.Request) (string, error) {
		calls++
		assert.Equal(t, "test-model", req.Model)
		return completion, nil
	})

	out, err := run(t, Deps{Config: config.Config{GroqModel: "test-model"}, LLM: client}, "analyze", path, "-i", "mild")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 65, got["score"])
	assert.Equal(t, "mild", got["roastIntensity"])
	assert.NotEmpty(t, got["resumeId"])
}

func TestAnalyzeCommandMissingCredentials(t *testing.T) {
	path := writeTemp(t, "resume.txt", resumeText)
	_, err := run(t, Deps{LLM: llm.PlaceholderClient{}}, "analyze", path)
	assert.ErrorIs(t, err, llm.ErrMissingCredentials)
}

func TestCommandsRequireOneArg(t *testing.T) {
	_, err := run(t, Deps{}, "parse")
	assert.Error(t, err)
}
