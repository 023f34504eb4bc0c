package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ragebait-resume/internal/analyses"
	"ragebait-resume/internal/roast"
)

func newAnalyzeCmd(deps Deps) *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "analyze <resume-file>",
		Short: "Run the full roast pipeline on a resume and print JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			svc := &analyses.Service{
				LLM:            deps.LLM,
				Model:          deps.Config.GroqModel,
				PromptMaxRunes: deps.Config.PromptMaxRunes,
			}
			out, err := svc.Analyze(cmd.Context(), analyses.Input{
				Owner:       "cli",
				FileName:    filepath.Base(args[0]),
				Data:        data,
				Intensity:   roast.ParseIntensity(flags.intensity),
				JobPosition: flags.jobPosition,
				JobField:    flags.jobField,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out.Response)
		},
	}
	flags.register(cmd)
	return cmd
}
