package targets

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
)

func TestDomainFor(t *testing.T) {
	var cases = []struct {
		in  string
		out string
	}{
		{"apple", "apple.com"},
		{"apple.com", "apple.com"},
		{"example.co.uk", "example.co.uk"},
		{" apple ", "apple.com"},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			assert.EqualValues(t, tt.out, DomainFor(tt.in))
		})
	}
}

func TestParseCIDR(t *testing.T) {
	var cases = []struct {
		in  string
		out string
		ok  bool
	}{
		{"10.0.0.0/24", "10.0.0.0/24", true},
		{"10.0.0.5/24", "10.0.0.0/24", true},
		{"192.168.1.7", "192.168.1.7/32", true},
		{"2001:db8::1/64", "2001:db8::/64", true},
		{"10.0.0.0/33", "", false},
		{"not-a-cidr", "", false},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParseCIDR(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tt.out, p.String())
		})
	}
}

func TestExtract(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	t.Run("limited", func(t *testing.T) {
		ips := Extract(ctx, []string{"192.168.1.0/30"}, 2)
		assert.EqualValues(t, []string{"192.168.1.0", "192.168.1.1"}, ips)
	})
	t.Run("whole range includes network and broadcast", func(t *testing.T) {
		ips := Extract(ctx, []string{"192.168.1.0/30"}, 0)
		assert.EqualValues(t, []string{"192.168.1.0", "192.168.1.1", "192.168.1.2", "192.168.1.3"}, ips)
	})
	t.Run("limit is per range", func(t *testing.T) {
		ips := Extract(ctx, []string{"10.0.0.0/30", "10.0.1.0/30"}, 1)
		assert.EqualValues(t, []string{"10.0.0.0", "10.0.1.0"}, ips)
	})
	t.Run("invalid entries are skipped", func(t *testing.T) {
		ips := Extract(ctx, []string{"nope", "10.0.0.1/32"}, 0)
		assert.EqualValues(t, []string{"10.0.0.1"}, ips)
	})
	t.Run("duplicates are dropped", func(t *testing.T) {
		ips := Extract(ctx, []string{"10.0.0.0/31", "10.0.0.1/32"}, 0)
		assert.EqualValues(t, []string{"10.0.0.0", "10.0.0.1"}, ips)
	})
	t.Run("huge range needs a limit", func(t *testing.T) {
		assert.Empty(t, Extract(ctx, []string{"10.0.0.0/8"}, 0))
		assert.Len(t, Extract(ctx, []string{"10.0.0.0/8"}, 5), 5)
	})
	t.Run("ipv6 with limit", func(t *testing.T) {
		ips := Extract(ctx, []string{"2001:db8::/64"}, 2)
		assert.EqualValues(t, []string{"2001:db8::", "2001:db8::1"}, ips)
	})
	t.Run("limit larger than range", func(t *testing.T) {
		ips := Extract(ctx, []string{"192.168.1.0/31"}, 10)
		assert.Len(t, ips, 2)
	})
}
