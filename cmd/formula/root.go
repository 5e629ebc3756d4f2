package formula

import "github.com/spf13/cobra"

var Command = &cobra.Command{
	Use:   "formula",
	Short: "Generate and check the Homebrew formula for a release",
}

func init() {
	Command.AddCommand(renderCmd, verifyCmd)
}
