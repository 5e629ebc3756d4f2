package cliutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bhaweshchaudhary/astra/pkg/airutil"
	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/bhaweshchaudhary/astra/pkg/config"
	"github.com/bhaweshchaudhary/astra/pkg/downloader"
	"github.com/bhaweshchaudhary/astra/pkg/store"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

// flags shared by every command, registered on the root
const (
	FlagConfig   = "config"
	FlagDatabase = "db"
	FlagCacheDir = "cache-dir"
)

// Config loads the configuration file named by --config.
func Config(cmd *cobra.Command) (astrav1.Config, error) {
	path, _ := cmd.Flags().GetString(FlagConfig)
	return config.Load(cmd.Context(), path)
}

// DatabasePath returns the history database location. The --db
// flag wins over the configuration file.
func DatabasePath(cmd *cobra.Command, cfg astrav1.Config) string {
	path, _ := cmd.Flags().GetString(FlagDatabase)
	if path == "" {
		path = cfg.Database
	}
	return filepath.Clean(airutil.ExpandHome(path))
}

// OpenStore opens the history database, creating its
// parent directory if needed.
func OpenStore(cmd *cobra.Command, cfg astrav1.Config) (*store.Store, error) {
	log := logr.FromContextOrDiscard(cmd.Context())
	path := DatabasePath(cmd, cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	log.V(1).Info("opening history database", "path", path)
	return store.New(cmd.Context(), path)
}

// Downloader returns a downloader using --cache-dir.
func Downloader(cmd *cobra.Command) (*downloader.Downloader, error) {
	dir, _ := cmd.Flags().GetString(FlagCacheDir)
	return downloader.NewDownloader(airutil.ExpandHome(dir))
}
