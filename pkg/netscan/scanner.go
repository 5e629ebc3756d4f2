package netscan

import (
	"context"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"sync"
	"time"

	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/go-logr/logr"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

type Scanner struct {
	Dialer      Dialer
	Timeout     time.Duration
	ProbePort   int
	HostWorkers int
	PortWorkers int
}

type PortResult struct {
	IP   string
	Port int
	Open bool
}

func NewScanner(timeout time.Duration) *Scanner {
	return &Scanner{
		Dialer:      &net.Dialer{},
		Timeout:     timeout,
		ProbePort:   astrav1.DefaultProbePort,
		HostWorkers: astrav1.DefaultHostWorkers,
		PortWorkers: astrav1.DefaultPortWorkers,
	}
}

// connect reports whether a TCP connection to ip:port
// could be established within the timeout.
func (s *Scanner) connect(ctx context.Context, ip string, port int) bool {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	conn, err := s.Dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// IsHostAlive checks whether a host accepts a TCP
// connection on the probe port.
func (s *Scanner) IsHostAlive(ctx context.Context, ip string) bool {
	log := logr.FromContextOrDiscard(ctx).WithValues("ip", ip)
	alive := s.connect(ctx, ip, s.ProbePort)
	log.V(2).Info("checked host", "port", s.ProbePort, "alive", alive)
	return alive
}

func (s *Scanner) ScanPort(ctx context.Context, ip string, port int) PortResult {
	log := logr.FromContextOrDiscard(ctx).WithValues("ip", ip, "port", port)
	open := s.connect(ctx, ip, port)
	log.V(2).Info("scanned port", "open", open)
	return PortResult{IP: ip, Port: port, Open: open}
}

// ScanHosts probes every address and returns the ones that
// are alive, sorted.
func (s *Scanner) ScanHosts(ctx context.Context, ips []string) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.Info("scanning for live hosts", "count", len(ips), "workers", workers(s.HostWorkers, astrav1.DefaultHostWorkers))

	var mu sync.Mutex
	alive := map[string]struct{}{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(s.HostWorkers, astrav1.DefaultHostWorkers))
	for _, ip := range ips {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.IsHostAlive(gctx, ip) {
				mu.Lock()
				alive[ip] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	live := maps.Keys(alive)
	SortIPs(live)
	log.Info("found live hosts", "count", len(live))
	return live, nil
}

// ScanPorts checks every port on every host and returns the
// open ones, sorted by address and then port.
func (s *Scanner) ScanPorts(ctx context.Context, hosts []string, ports []int) ([]astrav1.OpenPort, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.Info("scanning ports", "ports", ports, "hosts", len(hosts), "workers", workers(s.PortWorkers, astrav1.DefaultPortWorkers))

	var mu sync.Mutex
	var open []astrav1.OpenPort

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(s.PortWorkers, astrav1.DefaultPortWorkers))
scan:
	for _, ip := range hosts {
		for _, port := range ports {
			if gctx.Err() != nil {
				break scan
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if res := s.ScanPort(gctx, ip, port); res.Open {
					mu.Lock()
					open = append(open, astrav1.OpenPort{IP: res.IP, Port: res.Port})
					mu.Unlock()
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	SortOpenPorts(open)
	log.Info("found open ports", "count", len(open))
	return open, nil
}

func workers(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// SortIPs sorts addresses numerically. Anything that
// can't be parsed is ordered lexically after valid addresses.
func SortIPs(ips []string) {
	slices.SortFunc(ips, compareIP)
}

func SortOpenPorts(ports []astrav1.OpenPort) {
	slices.SortFunc(ports, func(a, b astrav1.OpenPort) int {
		if c := compareIP(a.IP, b.IP); c != 0 {
			return c
		}
		return a.Port - b.Port
	})
}

func compareIP(a, b string) int {
	aa, errA := netip.ParseAddr(a)
	bb, errB := netip.ParseAddr(b)
	switch {
	case errA == nil && errB == nil:
		return aa.Compare(bb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
