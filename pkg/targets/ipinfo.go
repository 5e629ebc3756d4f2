package targets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bhaweshchaudhary/astra/pkg/requestutil"
	"github.com/carlmjohnson/requests"
	"github.com/go-logr/logr"
)

const DefaultIPInfoURL = "https://ipinfo.io"

var ErrUnauthorized = errors.New("ipinfo.io rejected the API token")

// IPInfoResolver looks up the IP ranges registered to a
// domain using the ipinfo.io ranges API.
type IPInfoResolver struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type ipinfoRanges struct {
	Domain string   `json:"domain"`
	Ranges []string `json:"ranges"`
}

func NewIPInfoResolver(token string) *IPInfoResolver {
	return &IPInfoResolver{
		BaseURL: DefaultIPInfoURL,
		Token:   token,
		Client:  http.DefaultClient,
	}
}

func (r *IPInfoResolver) Resolve(ctx context.Context, org string) ([]string, error) {
	domain := DomainFor(org)
	log := logr.FromContextOrDiscard(ctx).WithValues("domain", domain)
	log.V(1).Info("fetching ranges from ipinfo.io")

	var resp ipinfoRanges
	err := requests.
		URL(r.BaseURL).
		Pathf("/ranges/%s", domain).
		Param("token", r.Token).
		Client(r.Client).
		Accept("application/json").
		Handle(requestutil.ToJSON(&resp)).
		Fetch(ctx)
	if err != nil {
		if requests.HasStatusErr(err, http.StatusUnauthorized, http.StatusForbidden) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("fetching ranges for %s: %w", domain, err)
	}

	var out []string
	for _, cidr := range resp.Ranges {
		p, err := ParseCIDR(cidr)
		if err != nil {
			log.V(1).Info("ignoring invalid range", "cidr", cidr)
			continue
		}
		out = append(out, p.String())
	}
	log.Info("fetched ranges", "count", len(out))
	return out, nil
}

func (*IPInfoResolver) Name() string {
	return "ipinfo"
}
