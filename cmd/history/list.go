package history

import (
	"fmt"
	"text/tabwriter"

	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List previous scans, newest first",
	Args:    cobra.NoArgs,
	RunE:    list,
}

const flagLimit = "limit"

func init() {
	listCmd.Flags().IntP(flagLimit, "n", 20, "maximum number of scans to show (0 for all)")
}

func list(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt(flagLimit)

	cfg, err := cliutil.Config(cmd)
	if err != nil {
		return err
	}
	s, err := cliutil.OpenStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	scans, err := s.ListScans(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no scans recorded")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tORGANIZATION\tTIMESTAMP\tHOSTS\tOPEN PORTS")
	for _, sum := range scans {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", sum.ID, sum.Organization, sum.Timestamp, sum.HostCount, sum.PortCount)
	}
	return tw.Flush()
}
