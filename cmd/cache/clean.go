package cache

import (
	"fmt"

	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes all cached file downloads (targets files, release archives)",
	Args:  cobra.NoArgs,
	RunE:  clean,
}

func clean(cmd *cobra.Command, _ []string) error {
	dl, err := cliutil.Downloader(cmd)
	if err != nil {
		return err
	}
	if err := dl.Clean(cmd.Context()); err != nil {
		return fmt.Errorf("removing cache dir: %w", err)
	}
	return nil
}
