package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/bhaweshchaudhary/astra/pkg/netscan"
	"github.com/go-logr/logr"
)

// New assembles a Report. Hosts and ports are copied
// and sorted so that output is stable.
func New(scanID, org string, cidrs, live []string, open []astrav1.OpenPort, ts time.Time) astrav1.Report {
	hosts := slices.Clone(live)
	netscan.SortIPs(hosts)
	ports := slices.Clone(open)
	netscan.SortOpenPorts(ports)
	if hosts == nil {
		hosts = []string{}
	}
	if ports == nil {
		ports = []astrav1.OpenPort{}
	}
	if cidrs == nil {
		cidrs = []string{}
	}
	return astrav1.Report{
		ScanID:       scanID,
		Organization: org,
		Timestamp:    ts.UTC().Format(time.RFC3339),
		CIDRRanges:   cidrs,
		LiveHosts:    hosts,
		OpenPorts:    ports,
	}
}

// ParseFormat validates an output format name.
func ParseFormat(s string) (astrav1.OutputFormat, error) {
	switch f := astrav1.OutputFormat(s); f {
	case astrav1.FormatJSON, astrav1.FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (expected json or csv)", s)
	}
}

// Log prints a human-readable summary of the report.
func Log(ctx context.Context, r astrav1.Report) {
	log := logr.FromContextOrDiscard(ctx).WithValues("org", r.Organization)
	log.Info("scan results", "id", r.ScanID, "timestamp", r.Timestamp)
	log.Info("CIDR ranges", "count", len(r.CIDRRanges), "ranges", r.CIDRRanges)
	log.Info("live hosts", "count", len(r.LiveHosts))
	for _, host := range r.LiveHosts {
		log.Info(" - " + host)
	}
	log.Info("open ports", "count", len(r.OpenPorts))
	if len(r.OpenPorts) == 0 {
		log.Info("no open ports found")
		return
	}
	for _, p := range r.OpenPorts {
		log.Info(" - " + p.IP + ":" + strconv.Itoa(p.Port))
	}
}

// Write saves the report to path in the given format.
func Write(ctx context.Context, r astrav1.Report, path string, format astrav1.OutputFormat) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path, "format", format)

	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		log.Error(err, "failed to create output file")
		return fmt.Errorf("saving results to %s: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, r, format); err != nil {
		log.Error(err, "failed to write results")
		return fmt.Errorf("saving results to %s: %w", path, err)
	}
	log.Info("saved results")
	return nil
}

// Encode writes the report to w. JSON contains the whole
// report, CSV only the open ports.
func Encode(w io.Writer, r astrav1.Report, format astrav1.OutputFormat) error {
	switch format {
	case astrav1.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case astrav1.FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"IP", "Port"}); err != nil {
			return err
		}
		for _, p := range r.OpenPorts {
			if err := cw.Write([]string{p.IP, strconv.Itoa(p.Port)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
