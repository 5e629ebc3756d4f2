package history

import (
	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/bhaweshchaudhary/astra/pkg/report"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the results of a previous scan",
	Args:  cobra.ExactArgs(1),
	RunE:  show,
}

const flagOutputFormat = "output-format"

func init() {
	showCmd.Flags().String(flagOutputFormat, string(astrav1.FormatJSON), "output format (json, csv)")
}

func show(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString(flagOutputFormat)
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := cliutil.Config(cmd)
	if err != nil {
		return err
	}
	s, err := cliutil.OpenStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.GetReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return report.Encode(cmd.OutOrStdout(), r, f)
}
