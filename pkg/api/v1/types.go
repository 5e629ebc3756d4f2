package v1

import "time"

type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

const (
	DefaultPorts       = "22,80,443,8080,8443"
	DefaultTimeout     = 1.0
	DefaultProbePort   = 80
	DefaultHostWorkers = 50
	DefaultPortWorkers = 100
)

// Config is the on-disk configuration file.
// Flags given on the command line take precedence
// over anything set here.
type Config struct {
	APIToken       string  `json:"api_token"`
	WhoisXMLAPIKey string  `json:"whoisxml_api_key"`
	DefaultPorts   string  `json:"default_ports"`
	DefaultTimeout float64 `json:"default_timeout"`
	ProbePort      int     `json:"probe_port,omitempty"`
	HostWorkers    int     `json:"host_workers,omitempty"`
	PortWorkers    int     `json:"port_workers,omitempty"`
	Database       string  `json:"database,omitempty"`
}

// Timeout returns DefaultTimeout as a time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DefaultTimeout * float64(time.Second))
}

type OpenPort struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

type Report struct {
	ScanID       string     `json:"scan_id"`
	Organization string     `json:"organization"`
	Timestamp    string     `json:"timestamp"`
	CIDRRanges   []string   `json:"cidr_ranges"`
	LiveHosts    []string   `json:"live_hosts"`
	OpenPorts    []OpenPort `json:"open_ports"`
}
