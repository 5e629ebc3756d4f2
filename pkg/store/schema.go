package store

const schema = `
CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,
    organization TEXT NOT NULL,
    created_at TEXT NOT NULL,
    host_count INTEGER NOT NULL,
    port_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scan_ranges (
    scan_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    cidr TEXT NOT NULL,
    PRIMARY KEY (scan_id, position),
    FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS scan_hosts (
    scan_id TEXT NOT NULL,
    ip TEXT NOT NULL,
    PRIMARY KEY (scan_id, ip),
    FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS scan_ports (
    scan_id TEXT NOT NULL,
    ip TEXT NOT NULL,
    port INTEGER NOT NULL,
    PRIMARY KEY (scan_id, ip, port),
    FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);
CREATE INDEX IF NOT EXISTS idx_scans_org ON scans(organization);
`
