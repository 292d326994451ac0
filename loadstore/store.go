// Package loadstore records routing passes into a SQLite database so that the
// loads of different algorithms can be compared after the fact.
package loadstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/topology"
)

// ErrUnknownPass is returned when a pass id is not in the database.
var ErrUnknownPass = errors.New("unknown pass")

const schema = `
CREATE TABLE IF NOT EXISTS passes (
	id         TEXT PRIMARY KEY,
	algorithm  TEXT NOT NULL,
	mesh_rows  INTEGER NOT NULL,
	mesh_cols  INTEGER NOT NULL,
	total_load INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS channel_loads (
	pass_id   TEXT NOT NULL,
	core_id   INTEGER NOT NULL,
	direction TEXT NOT NULL,
	load      INTEGER NOT NULL,
	bandwidth INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS source_loads (
	pass_id   TEXT NOT NULL,
	core_id   INTEGER NOT NULL,
	direction TEXT NOT NULL,
	load      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	pass_id   TEXT NOT NULL,
	seq       INTEGER NOT NULL,
	kind      TEXT NOT NULL,
	core_id   INTEGER NOT NULL,
	direction TEXT NOT NULL,
	load      INTEGER NOT NULL
);
`

// A Pass summarizes one recorded routing pass.
type Pass struct {
	ID        string
	Algorithm string
	Rows      int
	Columns   int
	TotalLoad uint64
}

// A ChannelLoad is the load a pass left on a channel.
type ChannelLoad struct {
	CoreID    int
	Direction topology.Direction
	Load      uint16
	Bandwidth uint16
}

// A SourceLoad is the load a pass injected from a Source.
type SourceLoad struct {
	CoreID    int
	Direction topology.Direction
	Load      uint16
}

// Store writes routing passes into a SQLite database.
type Store struct {
	db     *sql.DB
	path   string
	closed bool
}

// New opens (or creates) the database at path. An empty path creates a new
// database with a unique name in the working directory. The database is
// closed when the process exits through atexit.
func New(path string) (*Store, error) {
	if path == "" {
		path = "manycore_loads_" + xid.New().String() + ".sqlite3"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open load database: %w", err)
	}

	s, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	s.path = path

	slog.Debug("Load database opened", "path", path)

	return s, nil
}

// NewWithDB creates a Store on an already opened database.
func NewWithDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create load tables: %w", err)
	}

	atexit.Register(func() { s.Close() })

	return s, nil
}

// Path returns the file the store writes to. It is empty when the store was
// created with NewWithDB.
func (s *Store) Path() string {
	return s.path
}

// RecordPass writes the current loads of a routed system and the events of
// the report that produced them. Everything is written in one transaction.
func (s *Store) RecordPass(
	sys *topology.System,
	report *routing.Report,
) (string, error) {
	if report == nil {
		return "", errors.New("no routing report to record")
	}

	id := xid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := writePass(tx, id, sys, report); err != nil {
		tx.Rollback()
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit pass %s: %w", id, err)
	}

	slog.Debug("Routing pass recorded",
		"pass", id,
		"algorithm", report.Algorithm.String(),
		"events", len(report.Events))

	return id, nil
}

func writePass(
	tx *sql.Tx,
	id string,
	sys *topology.System,
	report *routing.Report,
) error {
	_, err := tx.Exec(
		`INSERT INTO passes (id, algorithm, mesh_rows, mesh_cols, total_load)
		VALUES (?, ?, ?, ?, ?)`,
		id, report.Algorithm.String(), sys.Rows, sys.Columns, sys.TotalLoad())
	if err != nil {
		return fmt.Errorf("failed to insert pass: %w", err)
	}

	channelStmt, err := tx.Prepare(
		`INSERT INTO channel_loads (pass_id, core_id, direction, load, bandwidth)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare channel insert: %w", err)
	}
	defer channelStmt.Close()

	sourceStmt, err := tx.Prepare(
		`INSERT INTO source_loads (pass_id, core_id, direction, load)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare source insert: %w", err)
	}
	defer sourceStmt.Close()

	for i := range sys.Cores {
		core := &sys.Cores[i]

		for _, ch := range core.Channels.Sorted() {
			if ch.CurrentLoad() == 0 {
				continue
			}

			_, err := channelStmt.Exec(id, core.ID, ch.Direction.String(),
				ch.CurrentLoad(), ch.Bandwidth)
			if err != nil {
				return fmt.Errorf("failed to insert channel load: %w", err)
			}
		}

		for _, d := range topology.AllDirections {
			load, ok := core.SourceLoad(d)
			if !ok {
				continue
			}

			if _, err := sourceStmt.Exec(id, core.ID, d.String(), load); err != nil {
				return fmt.Errorf("failed to insert source load: %w", err)
			}
		}
	}

	eventStmt, err := tx.Prepare(
		`INSERT INTO events (pass_id, seq, kind, core_id, direction, load)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer eventStmt.Close()

	for seq, ev := range report.Events {
		_, err := eventStmt.Exec(id, seq, ev.Kind.String(), ev.CoreID,
			ev.Direction.String(), ev.Load)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	return nil
}

// Pass returns the summary of a recorded pass.
func (s *Store) Pass(id string) (Pass, error) {
	p := Pass{ID: id}

	err := s.db.QueryRow(
		`SELECT algorithm, mesh_rows, mesh_cols, total_load FROM passes WHERE id = ?`,
		id).Scan(&p.Algorithm, &p.Rows, &p.Columns, &p.TotalLoad)
	if errors.Is(err, sql.ErrNoRows) {
		return Pass{}, fmt.Errorf("%w: %s", ErrUnknownPass, id)
	}

	if err != nil {
		return Pass{}, fmt.Errorf("failed to query pass %s: %w", id, err)
	}

	return p, nil
}

// Passes lists every recorded pass in insertion order.
func (s *Store) Passes() ([]Pass, error) {
	rows, err := s.db.Query(
		`SELECT id, algorithm, mesh_rows, mesh_cols, total_load FROM passes
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query passes: %w", err)
	}
	defer rows.Close()

	var passes []Pass
	for rows.Next() {
		var p Pass
		if err := rows.Scan(&p.ID, &p.Algorithm, &p.Rows, &p.Columns,
			&p.TotalLoad); err != nil {
			return nil, fmt.Errorf("failed to scan pass: %w", err)
		}

		passes = append(passes, p)
	}

	return passes, rows.Err()
}

// ChannelLoads returns the non-zero channel loads of a pass, ordered by core
// and direction.
func (s *Store) ChannelLoads(passID string) ([]ChannelLoad, error) {
	if _, err := s.Pass(passID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT core_id, direction, load, bandwidth FROM channel_loads
		WHERE pass_id = ? ORDER BY rowid`, passID)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel loads: %w", err)
	}
	defer rows.Close()

	var loads []ChannelLoad
	for rows.Next() {
		var (
			l   ChannelLoad
			dir string
		)

		if err := rows.Scan(&l.CoreID, &dir, &l.Load, &l.Bandwidth); err != nil {
			return nil, fmt.Errorf("failed to scan channel load: %w", err)
		}

		if l.Direction, err = topology.ParseDirection(dir); err != nil {
			return nil, err
		}

		loads = append(loads, l)
	}

	return loads, rows.Err()
}

// SourceLoads returns the source loads of a pass, ordered by core and
// direction.
func (s *Store) SourceLoads(passID string) ([]SourceLoad, error) {
	if _, err := s.Pass(passID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT core_id, direction, load FROM source_loads
		WHERE pass_id = ? ORDER BY rowid`, passID)
	if err != nil {
		return nil, fmt.Errorf("failed to query source loads: %w", err)
	}
	defer rows.Close()

	var loads []SourceLoad
	for rows.Next() {
		var (
			l   SourceLoad
			dir string
		)

		if err := rows.Scan(&l.CoreID, &dir, &l.Load); err != nil {
			return nil, fmt.Errorf("failed to scan source load: %w", err)
		}

		if l.Direction, err = topology.ParseDirection(dir); err != nil {
			return nil, err
		}

		loads = append(loads, l)
	}

	return loads, rows.Err()
}

// EventCount returns how many events were recorded for a pass.
func (s *Store) EventCount(passID string) (int, error) {
	var n int

	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM events WHERE pass_id = ?`, passID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return n, nil
}

// Close closes the database. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	return s.db.Close()
}
