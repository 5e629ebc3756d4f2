package targets

import (
	"context"
	"fmt"
	"math/big"
	"net/netip"
	"strings"

	"github.com/go-logr/logr"
)

// MaxUncappedBits is the largest number of host bits a range
// may have before a cap (maxIPs) is required to expand it.
const MaxUncappedBits = 24

// DomainFor converts an organisation name into a domain. Names
// without a dot are assumed to be a .com
func DomainFor(org string) string {
	org = strings.TrimSpace(org)
	if strings.Contains(org, ".") {
		return org
	}
	return org + ".com"
}

// ParseCIDR validates a range without requiring the host bits to be zero
// (e.g. 10.0.0.5/24 becomes 10.0.0.0/24). Bare addresses are
// treated as single-host ranges.
func ParseCIDR(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("invalid CIDR %q: %w", s, err)
		}
		addr = addr.Unmap()
		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR %q: %w", s, err)
	}
	return p.Masked(), nil
}

// Extract expands each CIDR into its individual addresses, including
// the network and broadcast addresses. If maxIPs is greater than zero,
// only the first maxIPs addresses of each range are kept.
func Extract(ctx context.Context, cidrs []string, maxIPs int) []string {
	log := logr.FromContextOrDiscard(ctx)

	seen := map[netip.Addr]struct{}{}
	var out []string
	for _, cidr := range cidrs {
		p, err := ParseCIDR(cidr)
		if err != nil {
			log.Error(err, "skipping invalid CIDR", "cidr", cidr)
			continue
		}
		hostBits := p.Addr().BitLen() - p.Bits()
		if maxIPs <= 0 && hostBits > MaxUncappedBits {
			log.Error(fmt.Errorf("range has %s addresses", rangeSize(hostBits)), "skipping range as it is too large to scan without a limit (use --max-ips)", "cidr", cidr)
			continue
		}
		if maxIPs > 0 && (hostBits >= 62 || 1<<hostBits > maxIPs) {
			log.Info("limiting range", "cidr", cidr, "limit", maxIPs, "total", rangeSize(hostBits))
		}

		var n int
		for addr := p.Addr(); addr.IsValid() && p.Contains(addr); addr = addr.Next() {
			if maxIPs > 0 && n >= maxIPs {
				break
			}
			n++
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr.String())
		}
	}
	log.Info("extracted addresses", "count", len(out))
	return out
}

func rangeSize(hostBits int) string {
	return new(big.Int).Lsh(big.NewInt(1), uint(hostBits)).String()
}
