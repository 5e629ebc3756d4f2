package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/bhaweshchaudhary/astra/internal/cliutil"
	"github.com/bhaweshchaudhary/astra/pkg/airutil"
	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/bhaweshchaudhary/astra/pkg/netscan"
	"github.com/bhaweshchaudhary/astra/pkg/report"
	"github.com/bhaweshchaudhary/astra/pkg/targets"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <org>",
	Short: "scan an organisation or domain (e.g. apple or apple.com)",
	Args:  cobra.ExactArgs(1),
	RunE:  scan,
}

const (
	flagAPIToken     = "api-token"
	flagPorts        = "ports"
	flagTimeout      = "timeout"
	flagMaxIPs       = "max-ips"
	flagOutput       = "output"
	flagOutputFormat = "output-format"
	flagCIDR         = "cidr"
	flagTargetsFile  = "targets-file"
	flagProbePort    = "probe-port"
	flagHostWorkers  = "host-workers"
	flagPortWorkers  = "port-workers"
	flagNoHistory    = "no-history"
)

var (
	ErrNoIPs       = errors.New("no IPs extracted")
	ErrNoLiveHosts = errors.New("no live hosts found")
)

func init() {
	scanCmd.Flags().String(flagAPIToken, "", "ipinfo.io API token (overrides config)")
	scanCmd.Flags().String(flagPorts, astrav1.DefaultPorts, "comma-separated ports to scan (e.g. 80,443 or 8000-8010)")
	scanCmd.Flags().Float64(flagTimeout, astrav1.DefaultTimeout, "timeout for host/port scans in seconds")
	scanCmd.Flags().Int(flagMaxIPs, 0, "maximum number of IPs to scan per CIDR")
	scanCmd.Flags().StringP(flagOutput, "o", "", "file to save results (e.g. results.json)")
	scanCmd.Flags().String(flagOutputFormat, string(astrav1.FormatJSON), "output format (json, csv)")
	scanCmd.Flags().StringSlice(flagCIDR, nil, "scan these CIDR ranges instead of resolving the organisation")
	scanCmd.Flags().String(flagTargetsFile, "", "path or URL of a file listing additional CIDR ranges")
	scanCmd.Flags().Int(flagProbePort, astrav1.DefaultProbePort, "port used to check whether a host is alive")
	scanCmd.Flags().Int(flagHostWorkers, astrav1.DefaultHostWorkers, "number of concurrent host probes")
	scanCmd.Flags().Int(flagPortWorkers, astrav1.DefaultPortWorkers, "number of concurrent port probes")
	scanCmd.Flags().Bool(flagNoHistory, false, "don't record the scan in the history database")

	_ = scanCmd.MarkFlagFilename(flagOutput, ".json", ".csv")
}

func scan(cmd *cobra.Command, args []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())
	ctx := cmd.Context()
	org := args[0]

	cfg, err := cliutil.Config(cmd)
	if err != nil {
		return err
	}
	opts, err := scanOptions(cmd, cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	log.Info("starting scan", "org", org)

	// work out what we're scanning
	resolver := newResolver(opts.cidrs, opts.token)
	cidrs, err := resolver.Resolve(ctx, org)
	if err != nil && !(errors.Is(err, targets.ErrNoRanges) && opts.targetsFile != "") {
		log.Error(err, "failed to resolve CIDR ranges")
		return err
	}
	if opts.targetsFile != "" {
		dl, err := cliutil.Downloader(cmd)
		if err != nil {
			return err
		}
		extra, err := targets.ReadFile(ctx, airutil.ExpandHome(opts.targetsFile), dl)
		if err != nil {
			return err
		}
		cidrs = append(cidrs, extra...)
	}
	if len(cidrs) == 0 {
		log.Error(targets.ErrNoRanges, "exiting")
		return targets.ErrNoRanges
	}

	ips := targets.Extract(ctx, cidrs, opts.maxIPs)
	if len(ips) == 0 {
		log.Error(ErrNoIPs, "exiting")
		return ErrNoIPs
	}

	scanner := netscan.NewScanner(opts.timeout)
	scanner.ProbePort = opts.probePort
	scanner.HostWorkers = opts.hostWorkers
	scanner.PortWorkers = opts.portWorkers

	live, err := scanner.ScanHosts(ctx, ips)
	if err != nil {
		return err
	}
	if len(live) == 0 {
		log.Error(ErrNoLiveHosts, "exiting")
		return ErrNoLiveHosts
	}

	open, err := scanner.ScanPorts(ctx, live, opts.ports)
	if err != nil {
		return err
	}

	r := report.New(uuid.NewString(), org, cidrs, live, open, started)
	report.Log(ctx, r)
	log.V(1).Info("scan complete", "duration", time.Since(started).String())

	if opts.output != "" {
		if err := report.Write(ctx, r, opts.output, opts.format); err != nil {
			return err
		}
	}

	if !opts.noHistory {
		s, err := cliutil.OpenStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveReport(ctx, r); err != nil {
			log.Error(err, "failed to record scan history")
			return err
		}
		log.V(1).Info("recorded scan in history", "id", r.ScanID)
	}
	return nil
}

type options struct {
	token       string
	ports       []int
	timeout     time.Duration
	maxIPs      int
	output      string
	format      astrav1.OutputFormat
	cidrs       []string
	targetsFile string
	probePort   int
	hostWorkers int
	portWorkers int
	noHistory   bool
}

// scanOptions merges the command line flags over the
// configuration file.
func scanOptions(cmd *cobra.Command, cfg astrav1.Config) (options, error) {
	flags := cmd.Flags()
	var opts options

	opts.token, _ = flags.GetString(flagAPIToken)
	if opts.token == "" {
		opts.token = cfg.APIToken
	}

	portList := cfg.DefaultPorts
	if flags.Changed(flagPorts) {
		portList, _ = flags.GetString(flagPorts)
	}
	ports, err := netscan.ParsePorts(portList)
	if err != nil {
		return options{}, err
	}
	opts.ports = ports

	opts.timeout = cfg.Timeout()
	if flags.Changed(flagTimeout) {
		seconds, _ := flags.GetFloat64(flagTimeout)
		if seconds <= 0 {
			return options{}, fmt.Errorf("--%s must be greater than zero", flagTimeout)
		}
		opts.timeout = time.Duration(seconds * float64(time.Second))
	}

	opts.maxIPs, _ = flags.GetInt(flagMaxIPs)
	if opts.maxIPs < 0 {
		return options{}, fmt.Errorf("--%s must not be negative", flagMaxIPs)
	}

	opts.output, _ = flags.GetString(flagOutput)
	opts.output = airutil.ExpandHome(opts.output)
	format, _ := flags.GetString(flagOutputFormat)
	if opts.format, err = report.ParseFormat(format); err != nil {
		return options{}, err
	}

	opts.cidrs, _ = flags.GetStringSlice(flagCIDR)
	opts.targetsFile, _ = flags.GetString(flagTargetsFile)

	opts.probePort = intOption(cmd, flagProbePort, cfg.ProbePort)
	if opts.probePort < 1 || opts.probePort > 65535 {
		return options{}, fmt.Errorf("--%s must be between 1 and 65535", flagProbePort)
	}
	opts.hostWorkers = intOption(cmd, flagHostWorkers, cfg.HostWorkers)
	opts.portWorkers = intOption(cmd, flagPortWorkers, cfg.PortWorkers)

	opts.noHistory, _ = flags.GetBool(flagNoHistory)
	return opts, nil
}

func intOption(cmd *cobra.Command, name string, fromConfig int) int {
	if cmd.Flags().Changed(name) || fromConfig <= 0 {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fromConfig
}

// newResolver picks how CIDR ranges are found. Ranges given on the
// command line are used as-is, otherwise ipinfo.io is tried (if we
// have a token) before falling back to DNS.
func newResolver(cidrs []string, token string) targets.Resolver {
	if len(cidrs) > 0 {
		return targets.Static(cidrs)
	}
	var chain targets.Chain
	if token != "" {
		chain = append(chain, targets.NewIPInfoResolver(token))
	}
	return append(chain, targets.NewLocalResolver())
}
