package formula

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
)

var ErrNotFormula = errors.New("input is not a Homebrew formula")

var (
	reClass   = regexp.MustCompile(`^class\s+(\w+)\s*<\s*Formula\b`)
	reField   = regexp.MustCompile(`^(desc|homepage|url|sha256|license)\s+"((?:[^"\\]|\\.)*)"`)
	reDepends = regexp.MustCompile(`^depends_on\s+"([^"]+)"(\s*=>\s*:build)?`)
	reVersion = regexp.MustCompile(`[/-]v?(\d+(?:\.\d+)*(?:[-.][0-9A-Za-z]+)*)\.(?:tar\.gz|tgz|tar\.xz|txz|tar|zip)$`)
)

// Parse reads a formula previously written by Render (or by hand,
// as long as it follows the same layout).
func Parse(r io.Reader) (Formula, error) {
	var f Formula
	var block string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := reClass.FindStringSubmatch(line); m != nil {
			f.Class = m[1]
			continue
		}
		switch line {
		case "def install":
			block = "install"
			continue
		case "test do":
			block = "test"
			continue
		case "end":
			block = ""
			continue
		}
		switch block {
		case "install":
			if f.Install == "" {
				f.Install = line
			}
			continue
		case "test":
			if f.Test == "" {
				f.Test = line
			}
			continue
		}
		if m := reDepends.FindStringSubmatch(line); m != nil {
			f.DependsOn = append(f.DependsOn, Dependency{Name: m[1], Build: m[2] != ""})
			continue
		}
		if m := reField.FindStringSubmatch(line); m != nil {
			val := unquote(m[2])
			switch m[1] {
			case "desc":
				f.Desc = val
			case "homepage":
				f.Homepage = val
			case "url":
				f.URL = val
			case "sha256":
				f.SHA256 = val
			case "license":
				f.License = val
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Formula{}, err
	}
	if f.Class == "" || f.URL == "" {
		return Formula{}, ErrNotFormula
	}
	return f, nil
}

// VersionFromURL extracts the release version from an archive
// URL, without any leading 'v'.
func VersionFromURL(s string) string {
	m := reVersion.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func unquote(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}
