package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/shared/config"
)

// Deps are the collaborators shared by every subcommand.
type Deps struct {
	Config config.Config
	// LLM answers completions for the analyze command.
	LLM llm.Client
}

// NewRootCmd builds the roast command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "roast",
		Short: "Roast resumes from the terminal",
		Long: `roast runs the resume analysis pipeline locally: extract text from a
PDF, DOCX or text file, build the prompt, call the completion service and
parse the answer. Each stage can also be run on its own.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newAnalyzeCmd(deps),
		newPromptCmd(deps),
		newParseCmd(),
	)
	return root
}

// requestFlags are shared by commands that shape a roast request.
type requestFlags struct {
	intensity   string
	jobPosition string
	jobField    string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.intensity, "intensity", "i", "medium", "Roast intensity: mild, medium or savage")
	cmd.Flags().StringVar(&f.jobPosition, "job-position", "", "Target job position")
	cmd.Flags().StringVar(&f.jobField, "job-field", "", "Target job field")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
