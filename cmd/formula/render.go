package formula

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/bhaweshchaudhary/astra/pkg/formula"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the Homebrew formula for a release",
	Args:  cobra.NoArgs,
	RunE:  render,
}

const (
	flagTag     = "tag"
	flagSHA256  = "sha256"
	flagCompute = "compute"
	flagOutput  = "output"
)

func init() {
	renderCmd.Flags().String(flagTag, "", "release tag (defaults to the version of this binary)")
	renderCmd.Flags().String(flagSHA256, "", "sha256 of the release archive")
	renderCmd.Flags().Bool(flagCompute, false, "download the release archive and compute its sha256")
	renderCmd.Flags().StringP(flagOutput, "o", "", "file to write the formula to (defaults to stdout)")

	renderCmd.MarkFlagsMutuallyExclusive(flagSHA256, flagCompute)
	_ = renderCmd.MarkFlagFilename(flagOutput, ".rb")
}

func render(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	tag, _ := cmd.Flags().GetString(flagTag)
	sha, _ := cmd.Flags().GetString(flagSHA256)
	compute, _ := cmd.Flags().GetBool(flagCompute)
	output, _ := cmd.Flags().GetString(flagOutput)

	if tag == "" && !strings.HasSuffix(cmd.Root().Version, "-dev") {
		tag = cmd.Root().Version
	}
	if tag == "" || formula.VersionFromURL(formula.ArchiveURL(tag)) == "" {
		return errors.New("a release tag is required (e.g. --tag v0.1.0)")
	}

	f := formula.Default(tag)
	switch {
	case sha != "":
		if !formula.IsChecksum(sha) {
			return errors.New("--sha256 must be a 64 character hex digest")
		}
		f.SHA256 = sha
	case compute:
		dl, err := cliutil.Downloader(cmd)
		if err != nil {
			return err
		}
		f.SHA256, err = formula.Checksum(cmd.Context(), f.URL, dl)
		if err != nil {
			return err
		}
		log.Info("computed archive checksum", "url", f.URL, "sha256", f.SHA256)
	default:
		log.Info("warning: sha256 is a placeholder, use --sha256 or --compute")
	}

	var out io.Writer = cmd.OutOrStdout()
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	return formula.Render(out, f)
}
