package history

import "github.com/spf13/cobra"

var Command = &cobra.Command{
	Use:   "history",
	Short: "Inspect previous scans",
}

func init() {
	Command.AddCommand(listCmd, showCmd, rmCmd, cleanCmd)
}
