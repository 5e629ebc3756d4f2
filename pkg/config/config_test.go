package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	write := func(t *testing.T, name, data string) string {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0600))
		return path
	}

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(ctx, filepath.Join(t.TempDir(), "nope.json"))
		assert.NoError(t, err)
		assert.EqualValues(t, Default(), cfg)
	})
	t.Run("json overrides defaults", func(t *testing.T) {
		path := write(t, "config.json", `{"api_token": "secret", "default_ports": "80"}`)
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.EqualValues(t, "secret", cfg.APIToken)
		assert.EqualValues(t, "80", cfg.DefaultPorts)
		assert.EqualValues(t, astrav1.DefaultTimeout, cfg.DefaultTimeout)
		assert.EqualValues(t, astrav1.DefaultHostWorkers, cfg.HostWorkers)
	})
	t.Run("yaml is accepted", func(t *testing.T) {
		path := write(t, "config.yaml", "api_token: yaml-token\ndefault_timeout: 2.5\nprobe_port: 443\n")
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.EqualValues(t, "yaml-token", cfg.APIToken)
		assert.EqualValues(t, 2.5, cfg.DefaultTimeout)
		assert.EqualValues(t, 443, cfg.ProbePort)
	})
	t.Run("environment variables are expanded", func(t *testing.T) {
		t.Setenv("IPINFO_TOKEN", "from-env")
		path := write(t, "config.json", `{"api_token": "${IPINFO_TOKEN}"}`)
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.EqualValues(t, "from-env", cfg.APIToken)
	})
	t.Run("empty file returns defaults", func(t *testing.T) {
		path := write(t, "config.json", "")
		cfg, err := Load(ctx, path)
		assert.NoError(t, err)
		assert.EqualValues(t, Default(), cfg)
	})
	t.Run("malformed file", func(t *testing.T) {
		path := write(t, "config.json", `{"api_token": `)
		_, err := Load(ctx, path)
		assert.Error(t, err)
	})
}
