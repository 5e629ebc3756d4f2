package archiveutil

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

var (
	ErrUnsupported = errors.New("unsupported archive format")
	ErrUnsafePath  = errors.New("archive entry escapes destination")
)

// Extract expands the archive read from r into path. The
// compression is chosen from the archive name.
func Extract(ctx context.Context, r io.Reader, name, path string) error {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return Guntar(ctx, r, path)
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return Xuntar(ctx, r, path)
	case strings.HasSuffix(name, ".tar"):
		return Untar(ctx, r, path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(name))
	}
}

// Guntar is the same as Untar, but it first decodes the gzipped archive.
func Guntar(ctx context.Context, r io.Reader, path string) error {
	gzp, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gzp.Close()
	return Untar(ctx, gzp, path)
}

// Xuntar is the same as Untar, but it first decodes the xz archive.
func Xuntar(ctx context.Context, r io.Reader, path string) error {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return err
	}
	return Untar(ctx, xzr, path)
}

// Untar expands a tar archive into the given path. Only directories
// and regular files are extracted.
func Untar(ctx context.Context, r io.Reader, path string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)
	tr := tar.NewReader(r)

	root, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return err
		case header == nil:
			continue
		}

		target := filepath.Join(root, header.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			log.V(5).Info("creating directory", "target", target)
			if err := os.MkdirAll(target, 0755); err != nil {
				log.Error(err, "failed to create directory", "target", target)
				return err
			}
		case tar.TypeReg:
			log.V(5).Info("creating file", "target", target, "mode", header.Mode)
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode)&os.ModePerm)
			if err != nil {
				log.Error(err, "failed to open file", "target", target)
				return err
			}

			if _, err := io.Copy(f, tr); err != nil {
				log.Error(err, "failed to extract file", "target", target)
				_ = f.Close()
				return err
			}
			_ = f.Close()
		default:
			log.V(5).Info("skipping entry", "target", target, "type", header.Typeflag)
		}
	}
}
