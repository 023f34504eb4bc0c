package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ragebait-resume/internal/extract"
	"ragebait-resume/internal/llm"
	"ragebait-resume/internal/roast"
)

func newPromptCmd(deps Deps) *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "prompt <resume-file>",
		Short: "Print the prompt that would be sent for a resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extract.ExtractFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			prompt, err := llm.BuildRoastPrompt(llm.RoastInput{
				ResumeText:  text,
				Intensity:   roast.ParseIntensity(flags.intensity),
				JobPosition: flags.jobPosition,
				JobField:    flags.jobField,
				MaxRunes:    deps.Config.PromptMaxRunes,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "# prompt %s\n\n%s\n", prompt.Version, prompt.String())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
