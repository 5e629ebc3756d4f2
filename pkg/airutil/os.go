package airutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/drone/envsubst"
)

func ExpandEnv(s string) string {
	val, _ := envsubst.EvalEnv(s)
	return val
}

// ExpandHome replaces a leading '~' with the
// current users home directory.
func ExpandHome(s string) string {
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return s
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	return filepath.Join(home, strings.TrimPrefix(s, "~"))
}

// Dir returns the astra state directory (~/.astra),
// creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".astra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
