package targets

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	ips []net.IP
	err error
	got string
}

func (f *fakeLookup) LookupIP(_ context.Context, _, host string) ([]net.IP, error) {
	f.got = host
	return f.ips, f.err
}

type fakeResolver struct {
	name  string
	cidrs []string
	err   error
	calls int
}

func (f *fakeResolver) Resolve(context.Context, string) ([]string, error) {
	f.calls++
	return f.cidrs, f.err
}

func (f *fakeResolver) Name() string {
	return f.name
}

func TestLocalResolver_Resolve(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	t.Run("records are deduplicated", func(t *testing.T) {
		lookup := &fakeLookup{ips: []net.IP{
			net.ParseIP("17.253.144.10"),
			net.ParseIP("17.253.144.10"),
			net.ParseIP("17.172.224.47"),
		}}
		r := &LocalResolver{Lookup: lookup}
		cidrs, err := r.Resolve(ctx, "apple")
		require.NoError(t, err)
		assert.EqualValues(t, "apple.com", lookup.got)
		assert.EqualValues(t, []string{"17.253.144.10/32", "17.172.224.47/32"}, cidrs)
	})
	t.Run("nxdomain", func(t *testing.T) {
		r := &LocalResolver{Lookup: &fakeLookup{err: &net.DNSError{Err: "no such host", Name: "nope.com", IsNotFound: true}}}
		_, err := r.Resolve(ctx, "nope")
		assert.ErrorIs(t, err, ErrNoSuchDomain)
	})
	t.Run("timeout", func(t *testing.T) {
		r := &LocalResolver{Lookup: &fakeLookup{err: &net.DNSError{Err: "i/o timeout", Name: "slow.com", IsTimeout: true}}}
		_, err := r.Resolve(ctx, "slow.com")
		assert.ErrorIs(t, err, ErrTimeout)
	})
	t.Run("ipv6 only", func(t *testing.T) {
		r := &LocalResolver{Lookup: &fakeLookup{ips: []net.IP{net.ParseIP("2001:db8::1")}}}
		_, err := r.Resolve(ctx, "example.com")
		assert.ErrorIs(t, err, ErrNoRecords)
	})
}

func TestIPInfoResolver_Resolve(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "good" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.EqualValues(t, "/ranges/example.com", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"domain": "example.com", "num_ranges": "3", "ranges": ["93.184.216.0/24", "2606:2800:220::/48", "garbage"]}`))
	}))
	defer srv.Close()

	t.Run("ranges are returned", func(t *testing.T) {
		r := &IPInfoResolver{BaseURL: srv.URL, Token: "good", Client: srv.Client()}
		cidrs, err := r.Resolve(ctx, "example")
		require.NoError(t, err)
		assert.EqualValues(t, []string{"93.184.216.0/24", "2606:2800:220::/48"}, cidrs)
	})
	t.Run("bad token", func(t *testing.T) {
		r := &IPInfoResolver{BaseURL: srv.URL, Token: "bad", Client: srv.Client()}
		_, err := r.Resolve(ctx, "example")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestChain_Resolve(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	t.Run("falls through to next resolver", func(t *testing.T) {
		first := &fakeResolver{name: "first", err: errors.New("boom")}
		second := &fakeResolver{name: "second", cidrs: []string{"10.0.0.0/24"}}
		third := &fakeResolver{name: "third", cidrs: []string{"10.0.1.0/24"}}

		cidrs, err := Chain{first, second, third}.Resolve(ctx, "example")
		require.NoError(t, err)
		assert.EqualValues(t, []string{"10.0.0.0/24"}, cidrs)
		assert.Zero(t, third.calls)
	})
	t.Run("empty results", func(t *testing.T) {
		_, err := Chain{&fakeResolver{name: "empty"}}.Resolve(ctx, "example")
		assert.ErrorIs(t, err, ErrNoRanges)
	})
	t.Run("errors are kept", func(t *testing.T) {
		_, err := Chain{&fakeResolver{name: "dns", err: ErrNoSuchDomain}}.Resolve(ctx, "example")
		assert.ErrorIs(t, err, ErrNoRanges)
		assert.ErrorIs(t, err, ErrNoSuchDomain)
	})
}

func TestStatic_Resolve(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	cidrs, err := Static{"10.0.0.7/24"}.Resolve(ctx, "ignored")
	require.NoError(t, err)
	assert.EqualValues(t, []string{"10.0.0.0/24"}, cidrs)

	_, err = Static{"10.0.0.0/99"}.Resolve(ctx, "ignored")
	assert.Error(t, err)
}

type fakeFetcher struct {
	path string
}

func (f *fakeFetcher) Download(context.Context, string) (string, error) {
	return f.path, nil
}

func TestReadFile(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte("# office\n10.0.0.0/30\n\n192.168.1.9 # printer\n"), 0644))

	t.Run("local file", func(t *testing.T) {
		out, err := ReadFile(ctx, path, nil)
		require.NoError(t, err)
		assert.EqualValues(t, []string{"10.0.0.0/30", "192.168.1.9/32"}, out)
	})
	t.Run("remote file", func(t *testing.T) {
		out, err := ReadFile(ctx, "https://example.com/targets.txt", &fakeFetcher{path: path})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
	t.Run("missing file without fetcher", func(t *testing.T) {
		_, err := ReadFile(ctx, filepath.Join(t.TempDir(), "missing"), nil)
		assert.Error(t, err)
	})
	t.Run("invalid line", func(t *testing.T) {
		_, err := parseTargets(strings.NewReader("10.0.0.0/24\nbogus\n"))
		assert.ErrorContains(t, err, "line 2")
	})
}
