package targets

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

var ErrNoRanges = errors.New("no CIDR ranges found")

// Resolver converts an organisation or domain into
// a list of CIDR ranges.
type Resolver interface {
	Resolve(ctx context.Context, org string) ([]string, error)
	Name() string
}

// Chain tries each Resolver in order and returns the
// first non-empty result.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, org string) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("org", org)
	var errs []error
	for _, r := range c {
		log.V(1).Info("resolving CIDR ranges", "resolver", r.Name())
		cidrs, err := r.Resolve(ctx, org)
		if err != nil {
			log.Error(err, "resolver failed", "resolver", r.Name())
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			continue
		}
		if len(cidrs) > 0 {
			log.Info("resolved CIDR ranges", "resolver", r.Name(), "count", len(cidrs))
			return cidrs, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrNoRanges}, errs...)...)
	}
	return nil, ErrNoRanges
}

func (Chain) Name() string {
	return "chain"
}

// Static always returns the same ranges. It is used
// when the user passes --cidr.
type Static []string

func (s Static) Resolve(ctx context.Context, _ string) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx)
	out := make([]string, 0, len(s))
	for _, cidr := range s {
		p, err := ParseCIDR(cidr)
		if err != nil {
			return nil, err
		}
		log.Info("using user-provided CIDR", "cidr", p.String(), "bits", p.Addr().BitLen()-p.Bits())
		out = append(out, p.String())
	}
	return out, nil
}

func (Static) Name() string {
	return "static"
}
