package formula

import (
	"fmt"
	"strings"
)

const (
	Name             = "astra"
	Homepage         = "https://github.com/bhaweshchaudhary/astra"
	License          = "MIT"
	Description      = "Astra: A Powerful Network Scanner"
	PlaceholderSHA   = "replace_with_actual_sha256"
	BuildFile        = "go.mod"
	defaultInstall   = `system "go", "build", *std_go_args(ldflags: "-s -w -X main.version=#{version}")`
	defaultSmokeTest = `system bin/"astra", "--help"`
)

// Dependency is a single depends_on line.
type Dependency struct {
	Name  string
	Build bool
}

func (d Dependency) String() string {
	if d.Build {
		return fmt.Sprintf("%q => :build", d.Name)
	}
	return fmt.Sprintf("%q", d.Name)
}

// Formula is a Homebrew formula. URL and SHA256 are the only
// fields that change between releases.
type Formula struct {
	Class     string
	Desc      string
	Homepage  string
	URL       string
	SHA256    string
	License   string
	DependsOn []Dependency
	Install   string
	Test      string
}

// ArchiveURL returns the GitHub source archive for a release tag.
func ArchiveURL(tag string) string {
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	return fmt.Sprintf("%s/archive/refs/tags/%s.tar.gz", Homepage, tag)
}

// Default returns the formula for the given release. The
// checksum is left as a placeholder until it is computed.
func Default(tag string) Formula {
	return Formula{
		Class:     ClassName(Name),
		Desc:      Description,
		Homepage:  Homepage,
		URL:       ArchiveURL(tag),
		SHA256:    PlaceholderSHA,
		License:   License,
		DependsOn: []Dependency{{Name: "go", Build: true}},
		Install:   defaultInstall,
		Test:      defaultSmokeTest,
	}
}

// ClassName converts a formula name into the Ruby class
// name Homebrew expects (e.g. foo-bar becomes FooBar).
func ClassName(name string) string {
	var sb strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	}) {
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}
