package history

import (
	"errors"
	"fmt"
	"os"

	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes the scan history database",
	Args:  cobra.NoArgs,
	RunE:  clean,
}

func clean(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	cfg, err := cliutil.Config(cmd)
	if err != nil {
		return err
	}
	path := cliutil.DatabasePath(cmd, cfg)
	log.Info("deleting history database", "path", path)

	// WAL mode leaves a couple of extra files next to the database
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}
