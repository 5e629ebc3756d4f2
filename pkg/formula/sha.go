package formula

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

var reSHA256 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func Sha256(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsChecksum reports whether s looks like a real
// (lowercase hex) sha256 digest.
func IsChecksum(s string) bool {
	return reSHA256.MatchString(s)
}
