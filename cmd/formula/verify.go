package formula

import (
	"fmt"
	"os"

	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/bhaweshchaudhary/astra/pkg/formula"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <formula.rb>",
	Short: "Check that a formula's sha256 matches its release archive",
	Args:  cobra.ExactArgs(1),
	RunE:  verify,
}

func verify(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	f, err := formula.Parse(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	dl, err := cliutil.Downloader(cmd)
	if err != nil {
		return err
	}
	res, err := formula.Verify(cmd.Context(), f, dl)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "version: %s\nsha256: %s\nsource: %s\n", res.Version, res.SHA256, res.TreeDigest)
	return nil
}
