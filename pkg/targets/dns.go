package targets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/go-logr/logr"
)

var (
	ErrNoSuchDomain = errors.New("domain does not exist")
	ErrNoRecords    = errors.New("no A records found")
	ErrTimeout      = errors.New("DNS query timed out")
)

// HostLookup is satisfied by *net.Resolver.
type HostLookup interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// LocalResolver resolves the A records of an organisations
// domain and returns each as a /32.
type LocalResolver struct {
	Lookup  HostLookup
	Timeout time.Duration
}

func NewLocalResolver() *LocalResolver {
	return &LocalResolver{
		Lookup:  net.DefaultResolver,
		Timeout: 5 * time.Second,
	}
}

func (r *LocalResolver) Resolve(ctx context.Context, org string) ([]string, error) {
	domain := DomainFor(org)
	log := logr.FromContextOrDiscard(ctx).WithValues("domain", domain)
	log.V(1).Info("resolving domain locally")

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	ips, err := r.Lookup.LookupIP(ctx, "ip4", domain)
	if err != nil {
		var dnsErr *net.DNSError
		switch {
		case errors.As(err, &dnsErr) && dnsErr.IsNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNoSuchDomain, domain)
		case errors.As(err, &dnsErr) && dnsErr.IsTimeout, errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: %s", ErrTimeout, domain)
		}
		return nil, fmt.Errorf("resolving %s: %w", domain, err)
	}

	var out []string
	for _, ip := range ips {
		v4 := ip.To4()
		if v4 == nil {
			continue
		}
		cidr := v4.String() + "/32"
		if slices.Contains(out, cidr) {
			continue
		}
		out = append(out, cidr)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, domain)
	}
	log.Info("resolved domain", "count", len(out), "ips", out)
	return out, nil
}

func (*LocalResolver) Name() string {
	return "dns"
}
