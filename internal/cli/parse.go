package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ragebait-resume/internal/roast"
)

type parseReport struct {
	Degraded   bool     `json:"degraded"`
	Sections   []string `json:"degradedSections"`
	GateFound  bool     `json:"gateFound"`
	ScoreFound bool     `json:"scoreFound"`
	RawScore   int      `json:"rawScore"`
}

type parseOutput struct {
	Result roast.Result `json:"result"`
	Report parseReport  `json:"report"`
}

func newParseCmd() *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "parse <completion-file>",
		Short: "Parse a saved completion offline and print the result with its degradation report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read completion: %w", err)
			}
			req := roast.Request{
				Intensity:   roast.ParseIntensity(flags.intensity),
				JobPosition: flags.jobPosition,
				JobField:    flags.jobField,
			}.Normalized()
			result, report := roast.Parse(string(raw), req)
			sections := report.DegradedSections()
			if sections == nil {
				sections = []string{}
			}
			return writeJSON(cmd.OutOrStdout(), parseOutput{
				Result: result,
				Report: parseReport{
					Degraded:   report.Degraded(),
					Sections:   sections,
					GateFound:  report.GateFound,
					ScoreFound: report.ScoreFound,
					RawScore:   report.RawScore,
				},
			})
		},
	}
	flags.register(cmd)
	return cmd
}
