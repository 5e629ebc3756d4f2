package formula

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bhaweshchaudhary/astra/pkg/archiveutil"
	"github.com/go-logr/logr"
	"github.com/gosimple/hashdir"
)

var (
	ErrPlaceholderChecksum = errors.New("formula sha256 has not been set")
	ErrChecksumMismatch    = errors.New("formula sha256 does not match archive")
	ErrMissingBuildScript  = errors.New("archive does not contain a build script")
)

// Fetcher retrieves a remote file and returns its local path.
type Fetcher interface {
	Download(ctx context.Context, src string) (string, error)
}

type Result struct {
	Version    string
	SHA256     string
	TreeDigest string
}

// Checksum downloads the archive at src and returns its sha256.
func Checksum(ctx context.Context, src string, dl Fetcher) (string, error) {
	path, err := dl.Download(ctx, src)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", src, err)
	}
	return Sha256(path)
}

// Verify checks that the archive referenced by the formula matches
// its checksum and contains something we know how to build.
func Verify(ctx context.Context, f Formula, dl Fetcher) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("url", f.URL)

	if !IsChecksum(f.SHA256) {
		return nil, fmt.Errorf("%w: %q", ErrPlaceholderChecksum, f.SHA256)
	}

	path, err := dl.Download(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", f.URL, err)
	}
	digest, err := Sha256(path)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("computed archive checksum", "sha256", digest)
	if digest != f.SHA256 {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, f.SHA256, digest)
	}

	dir, err := os.MkdirTemp("", "astra-formula-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	archive, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	name := f.URL
	if uri, err := url.Parse(f.URL); err == nil {
		name = uri.Path
	}
	if err := archiveutil.Extract(ctx, archive, name, dir); err != nil {
		return nil, fmt.Errorf("extracting archive: %w", err)
	}

	src, err := sourceRoot(dir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(src, BuildFile)); err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrMissingBuildScript, BuildFile)
	}

	tree, err := hashdir.Make(src, "sha256")
	if err != nil {
		log.Error(err, "failed to generate source tree digest", "alg", "sha256", "path", src)
		return nil, err
	}
	log.Info("verified formula", "sha256", digest, "tree", tree)

	return &Result{
		Version:    VersionFromURL(f.URL),
		SHA256:     digest,
		TreeDigest: "sha256:" + tree,
	}, nil
}

// sourceRoot returns the single top-level directory that source
// archives are usually wrapped in, or dir itself if there isn't one.
func sourceRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}
