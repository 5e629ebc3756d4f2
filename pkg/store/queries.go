package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/bhaweshchaudhary/astra/pkg/netscan"
)

// Summary is a single row of the scan history.
type Summary struct {
	ID           string
	Organization string
	Timestamp    string
	HostCount    int
	PortCount    int
}

// SaveReport records a completed scan.
func (s *Store) SaveReport(ctx context.Context, r astrav1.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scans (id, organization, created_at, host_count, port_count)
		VALUES (?, ?, ?, ?, ?)
	`, r.ScanID, r.Organization, r.Timestamp, len(r.LiveHosts), len(r.OpenPorts))
	if err != nil {
		return fmt.Errorf("inserting scan %s: %w", r.ScanID, err)
	}
	for i, cidr := range r.CIDRRanges {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scan_ranges (scan_id, position, cidr) VALUES (?, ?, ?)`, r.ScanID, i, cidr); err != nil {
			return fmt.Errorf("inserting range %s: %w", cidr, err)
		}
	}
	for _, ip := range r.LiveHosts {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO scan_hosts (scan_id, ip) VALUES (?, ?)`, r.ScanID, ip); err != nil {
			return fmt.Errorf("inserting host %s: %w", ip, err)
		}
	}
	for _, p := range r.OpenPorts {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO scan_ports (scan_id, ip, port) VALUES (?, ?, ?)`, r.ScanID, p.IP, p.Port); err != nil {
			return fmt.Errorf("inserting port %s:%d: %w", p.IP, p.Port, err)
		}
	}
	return tx.Commit()
}

// ListScans returns the most recent scans first. A limit of
// zero or less returns everything.
func (s *Store) ListScans(ctx context.Context, limit int) ([]Summary, error) {
	query := `
		SELECT id, organization, created_at, host_count, port_count
		FROM scans
		ORDER BY created_at DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Organization, &sum.Timestamp, &sum.HostCount, &sum.PortCount); err != nil {
			return nil, fmt.Errorf("reading scan: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// GetReport rebuilds the full report of a previous scan.
func (s *Store) GetReport(ctx context.Context, id string) (astrav1.Report, error) {
	r := astrav1.Report{
		CIDRRanges: []string{},
		LiveHosts:  []string{},
		OpenPorts:  []astrav1.OpenPort{},
	}
	err := s.db.QueryRowContext(ctx, `SELECT id, organization, created_at FROM scans WHERE id = ?`, id).
		Scan(&r.ScanID, &r.Organization, &r.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return astrav1.Report{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return astrav1.Report{}, fmt.Errorf("getting scan %s: %w", id, err)
	}

	if err := s.each(ctx, `SELECT cidr FROM scan_ranges WHERE scan_id = ? ORDER BY position`, id, func(rows *sql.Rows) error {
		var cidr string
		if err := rows.Scan(&cidr); err != nil {
			return err
		}
		r.CIDRRanges = append(r.CIDRRanges, cidr)
		return nil
	}); err != nil {
		return astrav1.Report{}, err
	}
	if err := s.each(ctx, `SELECT ip FROM scan_hosts WHERE scan_id = ?`, id, func(rows *sql.Rows) error {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return err
		}
		r.LiveHosts = append(r.LiveHosts, ip)
		return nil
	}); err != nil {
		return astrav1.Report{}, err
	}
	if err := s.each(ctx, `SELECT ip, port FROM scan_ports WHERE scan_id = ?`, id, func(rows *sql.Rows) error {
		var p astrav1.OpenPort
		if err := rows.Scan(&p.IP, &p.Port); err != nil {
			return err
		}
		r.OpenPorts = append(r.OpenPorts, p)
		return nil
	}); err != nil {
		return astrav1.Report{}, err
	}

	netscan.SortIPs(r.LiveHosts)
	netscan.SortOpenPorts(r.OpenPorts)
	return r, nil
}

// DeleteScan removes a scan and everything recorded with it.
func (s *Store) DeleteScan(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *Store) each(ctx context.Context, query, id string, fn func(rows *sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("querying scan %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("reading scan %s: %w", id, err)
		}
	}
	return rows.Err()
}
