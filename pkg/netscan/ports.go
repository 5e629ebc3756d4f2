package netscan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPorts = errors.New("invalid ports format, use comma-separated integers (e.g. 80,443)")

// ParsePorts reads a comma-separated list of ports. Ranges
// (e.g. 8000-8010) are expanded. Duplicates are dropped while
// preserving the order in which ports first appear.
func ParsePorts(s string) ([]int, error) {
	var out []int
	seen := map[int]bool{}
	add := func(p int) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, ErrInvalidPorts
		}
		lo, hi, isRange := strings.Cut(field, "-")
		start, err := parsePort(lo)
		if err != nil {
			return nil, err
		}
		if !isRange {
			add(start)
			continue
		}
		end, err := parsePort(hi)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("%w: range %s is backwards", ErrInvalidPorts, field)
		}
		for p := start; p <= end; p++ {
			add(p)
		}
	}
	return out, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidPorts
	}
	if p < 1 || p > 65535 {
		return 0, fmt.Errorf("%w: port %d out of range", ErrInvalidPorts, p)
	}
	return p, nil
}
