package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bhaweshchaudhary/astra/cmd/cache"
	"github.com/bhaweshchaudhary/astra/cmd/formula"
	"github.com/bhaweshchaudhary/astra/cmd/history"
	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/bhaweshchaudhary/astra/pkg/config"
	"github.com/djcass44/go-utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var command = &cobra.Command{
	Use:   "astra",
	Short: "Astra: A Powerful Network Scanner",
	Long: `Astra finds the address ranges belonging to an organisation, discovers
which hosts are alive and reports the ports they have open.`,
	Example: `  # scan apple.com with the default ports
  astra scan apple

  # scan a single range and save the results
  astra scan example --cidr 192.0.2.0/28 --ports 22,80,443 --output results.json`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel, _ := cmd.Flags().GetInt(flagLogLevel)
		if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose && logLevel < 1 {
			logLevel = 1
		}

		zc := zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel * -1))

		_, ctx := logging.NewZap(cmd.Context(), zc)
		cmd.SetContext(ctx)
	},
}

const (
	flagLogLevel = "v"
	flagVerbose  = "verbose"
)

func init() {
	command.PersistentFlags().Int(flagLogLevel, 0, "log level. Higher is more")
	command.PersistentFlags().Bool(flagVerbose, false, "enable verbose output (same as -v 1)")
	command.PersistentFlags().String(cliutil.FlagConfig, config.DefaultPath, "path to config file")
	command.PersistentFlags().String(cliutil.FlagDatabase, "", "scan history database (defaults to ~/.astra/astra.db)")
	command.PersistentFlags().String(cliutil.FlagCacheDir, "", "download cache directory (defaults to user cache dir)")

	_ = command.MarkPersistentFlagFilename(cliutil.FlagConfig, ".json", ".yaml", ".yml")
	_ = command.MarkPersistentFlagDirname(cliutil.FlagCacheDir)

	command.AddCommand(scanCmd, history.Command, formula.Command, cache.Command)
}

func Execute(version string) {
	command.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := command.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
