package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gyrogov/gyroscope-verifier/internal/diagnostic"
	"github.com/gyrogov/gyroscope-verifier/internal/scoring"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS run_summaries (
	run_id             TEXT PRIMARY KEY,
	arm                TEXT NOT NULL,
	challenge          TEXT NOT NULL,
	structure_pct      REAL NOT NULL,
	behavior_pct       REAL NOT NULL,
	specialization_pct REAL NOT NULL,
	overall            REAL NOT NULL,
	horizon            REAL NOT NULL,
	retention_samples  INTEGER NOT NULL,
	horizon_band       TEXT NOT NULL,
	trace_pass         INTEGER NOT NULL,
	pathologies_json   TEXT,
	created_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS validation_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	trace_id        INTEGER,
	is_valid        INTEGER NOT NULL,
	errors_json     TEXT,
	details_json    TEXT,
	created_at      TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store persists run summaries and the validation audit log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save-verdict

// SaveVerdict writes a run verdict's summary row. Verdicts are derived
// data; saving is idempotent per run ID.
func (s *Store) SaveVerdict(v diagnostic.RunVerdict) error {
	pathologies, err := json.Marshal(v.Summary.Pathologies)
	if err != nil {
		return fmt.Errorf("marshal pathologies: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO run_summaries
		 (run_id, arm, challenge, structure_pct, behavior_pct, specialization_pct,
		  overall, horizon, retention_samples, horizon_band, trace_pass, pathologies_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.RunID,
		string(v.Arm),
		string(v.Challenge),
		v.Summary.TierScores[scoring.TierStructure],
		v.Summary.TierScores[scoring.TierBehavior],
		v.Summary.TierScores[scoring.TierSpecialization],
		v.Summary.Overall,
		v.Summary.Horizon,
		v.Summary.RetentionSamples,
		string(v.Summary.HorizonBand),
		boolToInt(v.TracePass),
		string(pathologies),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run summary: %w", err)
	}
	return nil
}

// #endregion save-verdict

// #region read

// StoredRun is one persisted run summary row.
type StoredRun struct {
	RunID             string
	Arm               string
	Challenge         string
	StructurePct      float64
	BehaviorPct       float64
	SpecializationPct float64
	Overall           float64
	Horizon           float64
	RetentionSamples  int
	HorizonBand       string
	TracePass         bool
	Pathologies       []scoring.PathologyFinding
	CreatedAt         time.Time
}

// GetRun fetches one stored run summary by ID.
func (s *Store) GetRun(runID string) (StoredRun, error) {
	row := s.db.QueryRow(
		`SELECT run_id, arm, challenge, structure_pct, behavior_pct, specialization_pct,
		        overall, horizon, retention_samples, horizon_band, trace_pass, pathologies_json, created_at
		 FROM run_summaries WHERE run_id = ?`, runID)
	return scanRun(row)
}

// ListRuns returns the most recent run summaries, newest first.
func (s *Store) ListRuns(limit int) ([]StoredRun, error) {
	rows, err := s.db.Query(
		`SELECT run_id, arm, challenge, structure_pct, behavior_pct, specialization_pct,
		        overall, horizon, retention_samples, horizon_band, trace_pass, pathologies_json, created_at
		 FROM run_summaries ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []StoredRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (StoredRun, error) {
	var run StoredRun
	var tracePass int
	var pathologies sql.NullString
	var createdAt string

	err := row.Scan(&run.RunID, &run.Arm, &run.Challenge,
		&run.StructurePct, &run.BehaviorPct, &run.SpecializationPct,
		&run.Overall, &run.Horizon, &run.RetentionSamples, &run.HorizonBand,
		&tracePass, &pathologies, &createdAt)
	if err != nil {
		return StoredRun{}, fmt.Errorf("scan run summary: %w", err)
	}

	run.TracePass = tracePass != 0
	if pathologies.Valid && pathologies.String != "" && pathologies.String != "null" {
		if err := json.Unmarshal([]byte(pathologies.String), &run.Pathologies); err != nil {
			return StoredRun{}, fmt.Errorf("unmarshal pathologies: %w", err)
		}
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return StoredRun{}, fmt.Errorf("parse created_at: %w", err)
	}
	return run, nil
}

// #endregion read

// #region helpers

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
