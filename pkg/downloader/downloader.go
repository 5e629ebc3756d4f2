package downloader

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-getter"
)

type Downloader struct {
	cacheDir string
}

// DefaultCacheDir returns the users cache directory
// with an astra subdirectory.
func DefaultCacheDir() string {
	d, err := os.UserCacheDir()
	if err != nil {
		d = os.TempDir()
	}
	return filepath.Join(d, "astra")
}

func NewDownloader(cacheDir string) (*Downloader, error) {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	return &Downloader{cacheDir: cacheDir}, nil
}

func (d *Downloader) CacheDir() string {
	return d.cacheDir
}

// Download retrieves src into the cache directory and returns
// the path of the downloaded file. Archives are not unpacked.
func (d *Downloader) Download(ctx context.Context, src string) (string, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.Info("downloading file", "src", src)

	uri, err := url.Parse(src)
	if err != nil {
		log.Error(err, "failed to parse url")
		return "", err
	}

	// key the file on its source so that two different
	// release tags with the same basename don't collide
	dst := filepath.Join(d.cacheDir, HashString(src)+"-"+filepath.Base(uri.Path))
	log.V(1).Info("preparing to download file", "dst", dst)

	q := uri.Query()
	q.Set("archive", "false")
	uri.RawQuery = q.Encode()

	client := &getter.Client{
		Ctx:             ctx,
		Src:             uri.String(),
		Dst:             dst,
		Mode:            getter.ClientModeFile,
		DisableSymlinks: true,
	}
	if err := client.Get(); err != nil {
		log.Error(err, "failed to download file")
		return "", err
	}
	return dst, nil
}

// Clean removes everything in the cache directory.
func (d *Downloader) Clean(ctx context.Context) error {
	log := logr.FromContextOrDiscard(ctx)
	log.Info("deleting cache dir", "dir", d.cacheDir)
	return os.RemoveAll(d.cacheDir)
}
