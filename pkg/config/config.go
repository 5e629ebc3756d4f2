package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bhaweshchaudhary/astra/pkg/airutil"
	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/yaml"
)

const DefaultPath = "~/.astra/config.json"

// Default returns the configuration used when no
// file is present.
func Default() astrav1.Config {
	return astrav1.Config{
		DefaultPorts:   astrav1.DefaultPorts,
		DefaultTimeout: astrav1.DefaultTimeout,
		ProbePort:      astrav1.DefaultProbePort,
		HostWorkers:    astrav1.DefaultHostWorkers,
		PortWorkers:    astrav1.DefaultPortWorkers,
		Database:       "~/.astra/astra.db",
	}
}

// Load reads the configuration file at path and merges it
// over the defaults. A missing file is not an error.
func Load(ctx context.Context, path string) (astrav1.Config, error) {
	log := logr.FromContextOrDiscard(ctx)
	if path == "" {
		path = DefaultPath
	}
	path = filepath.Clean(airutil.ExpandHome(path))
	log = log.WithValues("path", path)

	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.V(1).Info("config file not found")
			return cfg, nil
		}
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		log.Error(err, "failed to parse config file")
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.APIToken = airutil.ExpandEnv(cfg.APIToken)
	cfg.WhoisXMLAPIKey = airutil.ExpandEnv(cfg.WhoisXMLAPIKey)
	cfg.Database = airutil.ExpandEnv(cfg.Database)

	// zero values in the file shouldn't knock out
	// the defaults
	def := Default()
	if cfg.DefaultPorts == "" {
		cfg.DefaultPorts = def.DefaultPorts
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = def.DefaultTimeout
	}
	if cfg.ProbePort <= 0 {
		cfg.ProbePort = def.ProbePort
	}
	if cfg.HostWorkers <= 0 {
		cfg.HostWorkers = def.HostWorkers
	}
	if cfg.PortWorkers <= 0 {
		cfg.PortWorkers = def.PortWorkers
	}
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	log.V(1).Info("loaded config file")
	return cfg, nil
}
