// Package storage handles database connections, schema migrations, and probe history operations using SQLite.
package storage

import (
	"database/sql"
	"strings"
	"time"

	"github.com/woozymasta/mcstatus/internal/models"
	_ "modernc.org/sqlite" // Driver sqlite
)

const historyColumns = `
	id, family, host, port, target_host, target_port, srv, online, error_code,
	ip, country_code, version, motd, players_online, players_max, latency_ms, checked_at`

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

// New initializes a new SQLite connection, sets connection pool parameters, and runs migrations.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// InsertProbe appends one probe outcome to the history.
func (r *Repository) InsertProbe(p models.ProbeRecord) (int64, error) {
	res, err := r.db.Exec(`
	INSERT INTO probe_history (
		family, host, port, target_host, target_port, srv, online, error_code,
		ip, country_code, version, motd, players_online, players_max, latency_ms, checked_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Family, p.Host, p.Port, p.TargetHost, p.TargetPort, p.SRV, p.Online, p.ErrorCode,
		p.IP, p.CountryCode, p.Version, p.MOTD, p.PlayersOnline, p.PlayersMax, p.Latency, p.CheckedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// HistoryFilter narrows History results. Empty fields match everything.
type HistoryFilter struct {
	Family string
	Host   string
	Port   int
	Limit  int
}

// History returns probe outcomes, newest first.
func (r *Repository) History(f HistoryFilter) ([]models.ProbeRecord, error) {
	var (
		where []string
		args  []interface{}
	)

	if f.Family != "" {
		where = append(where, "family = ?")
		args = append(args, f.Family)
	}
	if f.Host != "" {
		where = append(where, "host = ?")
		args = append(args, f.Host)
	}
	if f.Port > 0 {
		where = append(where, "port = ?")
		args = append(args, f.Port)
	}

	query := "SELECT" + historyColumns + " FROM probe_history"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY checked_at DESC, id DESC"

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []models.ProbeRecord
	for rows.Next() {
		var p models.ProbeRecord
		if err := rows.Scan(
			&p.ID, &p.Family, &p.Host, &p.Port, &p.TargetHost, &p.TargetPort, &p.SRV, &p.Online, &p.ErrorCode,
			&p.IP, &p.CountryCode, &p.Version, &p.MOTD, &p.PlayersOnline, &p.PlayersMax, &p.Latency, &p.CheckedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Endpoints lists every distinct endpoint present in the history.
// If family is provided (not empty), it restricts the list to that edition.
func (r *Repository) Endpoints(family string) ([]models.Endpoint, error) {
	query := `SELECT DISTINCT family, host, port FROM probe_history`
	var args []interface{}

	if family != "" {
		query += ` WHERE family = ?`
		args = append(args, family)
	}
	query += ` ORDER BY family, host, port`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var endpoints []models.Endpoint
	for rows.Next() {
		var e models.Endpoint
		if err := rows.Scan(&e.Family, &e.Host, &e.Port); err != nil {
			return nil, err
		}
		endpoints = append(endpoints, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return endpoints, nil
}

// PruneBefore removes history rows checked before t.
func (r *Repository) PruneBefore(t time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM probe_history WHERE checked_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
