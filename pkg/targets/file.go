package targets

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
)

// Fetcher retrieves a remote file and returns its local path.
type Fetcher interface {
	Download(ctx context.Context, src string) (string, error)
}

// ReadFile reads additional targets (CIDRs or addresses) from src.
// Local files are read directly, anything else is retrieved
// using the Fetcher.
func ReadFile(ctx context.Context, src string, dl Fetcher) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("src", src)

	path := src
	if _, err := os.Stat(src); err != nil {
		if dl == nil {
			return nil, fmt.Errorf("reading targets file: %w", err)
		}
		log.V(1).Info("targets file is not local, downloading")
		path, err = dl.Download(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("downloading targets file: %w", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := parseTargets(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	log.Info("read targets file", "count", len(out))
	return out, nil
}

func parseTargets(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	var line int
	for sc.Scan() {
		line++
		s, _, _ := strings.Cut(sc.Text(), "#")
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		p, err := ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, p.String())
	}
	return out, sc.Err()
}
