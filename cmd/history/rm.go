package history

import (
	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete scans from the history",
	Args:  cobra.MinimumNArgs(1),
	RunE:  rm,
}

func rm(cmd *cobra.Command, args []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	cfg, err := cliutil.Config(cmd)
	if err != nil {
		return err
	}
	s, err := cliutil.OpenStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, id := range args {
		if err := s.DeleteScan(cmd.Context(), id); err != nil {
			return err
		}
		log.Info("deleted scan", "id", id)
	}
	return nil
}
