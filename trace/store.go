package trace

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chazu/stackvm/runner"
)

// ErrRunNotFound indicates the requested run has no recorded steps.
var ErrRunNotFound = errors.New("run not found")

// Store persists step records to a SQLite database. It implements
// runner.Observer; attach it to a Runner to record every step of a run.
//
// Observe cannot return an error, so write failures are sticky: the first
// one is kept and reported by Err (and by Close).
type Store struct {
	db  *sql.DB
	run string
	err error
}

// Open opens (creating if needed) the trace database at path and scopes
// subsequent observations to the given run identifier.
func Open(path, run string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS steps (
		run    TEXT NOT NULL,
		step   INTEGER NOT NULL,
		record BLOB NOT NULL,
		PRIMARY KEY (run, step)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating steps table: %w", err)
	}

	return &Store{db: db, run: run}, nil
}

// Observe implements runner.Observer by recording one step.
func (s *Store) Observe(st runner.Step) {
	if s.err != nil {
		return
	}

	rec := &StepRecord{
		Run:  s.run,
		Step: st.N,
		IP:   int32(st.IP),
		Trap: st.Trap.String(),
		Size: st.Size,
	}
	if st.Fetched {
		rec.Opcode = st.Inst.Op.String()
		rec.Operand = int32(st.Inst.Operand)
	}

	data, err := MarshalStepRecord(rec)
	if err != nil {
		s.err = fmt.Errorf("trace: marshal step %d: %w", st.N, err)
		return
	}
	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO steps (run, step, record) VALUES (?, ?, ?)",
		s.run, rec.Step, data,
	); err != nil {
		s.err = fmt.Errorf("trace: insert step %d: %w", st.N, err)
	}
}

// Err returns the first write failure, if any.
func (s *Store) Err() error {
	return s.err
}

// Steps returns every recorded step of a run in order.
func (s *Store) Steps(run string) ([]*StepRecord, error) {
	rows, err := s.db.Query(
		"SELECT record FROM steps WHERE run = ? ORDER BY step", run,
	)
	if err != nil {
		return nil, fmt.Errorf("querying steps: %w", err)
	}
	defer rows.Close()

	var records []*StepRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		rec, err := UnmarshalStepRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating steps: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrRunNotFound
	}
	return records, nil
}

// Close flushes nothing (writes are synchronous) and closes the database.
// It returns the sticky write error, if one occurred, in preference to any
// close error.
func (s *Store) Close() error {
	closeErr := s.db.Close()
	if s.err != nil {
		return s.err
	}
	return closeErr
}
