// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry persists dataset, split, and model-run records in a
// SQLite database so workflow runs are discoverable and repeatable.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ds-workflow/internal/dataset"
	"github.com/pdiddy/ds-workflow/pkg/types"
)

const (
	dbFile     = "workflow.db"
	exportFile = "export.yaml"
)

// Store manages the workflow registry database.
type Store struct {
	db          *sql.DB
	registryDir string
	maxResults  int
}

// NewStore opens or creates the registry database at
// registryDir/workflow.db, creating the schema if it does not exist.
func NewStore(cfg types.RegistryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.RegistryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	dbPath := filepath.Join(cfg.RegistryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, registryDir: cfg.RegistryDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id TEXT NOT NULL UNIQUE,
			path TEXT PRIMARY KEY,
			rows INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			target TEXT,
			is_derived INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			registered_at TEXT NOT NULL,
			file_mod_time TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS splits (
			id TEXT PRIMARY KEY,
			dataset_id TEXT NOT NULL REFERENCES datasets(id),
			test_frac REAL NOT NULL,
			validate_frac REAL NOT NULL,
			seed INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dataset_id TEXT NOT NULL REFERENCES datasets(id),
			model TEXT NOT NULL,
			metric_name TEXT NOT NULL,
			metric_value REAL NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_splits_dataset ON splits(dataset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over notes and path, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='datasets_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE datasets_fts USING fts5(notes, path, content=datasets, content_rowid=rowid)`,
			`CREATE TRIGGER datasets_ai AFTER INSERT ON datasets BEGIN
				INSERT INTO datasets_fts(rowid, notes, path) VALUES (new.rowid, new.notes, new.path);
			END`,
			`CREATE TRIGGER datasets_ad AFTER DELETE ON datasets BEGIN
				INSERT INTO datasets_fts(datasets_fts, rowid, notes, path) VALUES('delete', old.rowid, old.notes, old.path);
			END`,
			`CREATE TRIGGER datasets_au AFTER UPDATE ON datasets BEGIN
				INSERT INTO datasets_fts(datasets_fts, rowid, notes, path) VALUES('delete', old.rowid, old.notes, old.path);
				INSERT INTO datasets_fts(rowid, notes, path) VALUES (new.rowid, new.notes, new.path);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// DatasetRecord is one registered dataset.
type DatasetRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Path         string    `json:"path" yaml:"path"`
	Rows         int       `json:"rows" yaml:"rows"`
	Cols         int       `json:"cols" yaml:"cols"`
	Target       string    `json:"target,omitempty" yaml:"target,omitempty"`
	IsDerived    bool      `json:"is_derived" yaml:"is_derived"`
	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	RegisteredAt time.Time `json:"registered_at" yaml:"registered_at"`
}

// SplitRecord is one recorded train/validate/test split.
type SplitRecord struct {
	ID           string    `json:"id" yaml:"id"`
	DatasetID    string    `json:"dataset_id" yaml:"dataset_id"`
	TestFrac     float64   `json:"test_frac" yaml:"test_frac"`
	ValidateFrac float64   `json:"validate_frac" yaml:"validate_frac"`
	Seed         int64     `json:"seed" yaml:"seed"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// RunRecord is one recorded model training run.
type RunRecord struct {
	ID          string    `json:"id" yaml:"id"`
	DatasetID   string    `json:"dataset_id" yaml:"dataset_id"`
	Model       string    `json:"model" yaml:"model"`
	MetricName  string    `json:"metric_name" yaml:"metric_name"`
	MetricValue float64   `json:"metric_value" yaml:"metric_value"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// RegisterSummary holds counts from a directory registration run.
type RegisterSummary struct {
	Registered int
	Updated    int
	Skipped    int
	Failed     int
}

// Total returns the number of files processed.
func (s RegisterSummary) Total() int {
	return s.Registered + s.Updated + s.Skipped + s.Failed
}

// Register upserts one loaded dataset, keyed by path. Registering a path
// whose file has not changed since the stored mod time is a no-op and
// returns the existing record.
func (s *Store) Register(ctx context.Context, d *dataset.Dataset, notes string) (DatasetRecord, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		return DatasetRecord{}, fmt.Errorf("stat %s: %w", d.Path, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var existingID, storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, file_mod_time FROM datasets WHERE path = ?`, d.Path,
	).Scan(&existingID, &storedModTime)
	switch {
	case err == sql.ErrNoRows:
		existingID = uuid.NewString()
	case err != nil:
		return DatasetRecord{}, fmt.Errorf("querying dataset: %w", err)
	case storedModTime == modTime:
		return s.datasetByPath(ctx, d.Path)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, path, rows, cols, target, is_derived, notes, registered_at, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			rows=excluded.rows, cols=excluded.cols, target=excluded.target,
			is_derived=excluded.is_derived, notes=excluded.notes,
			registered_at=excluded.registered_at, file_mod_time=excluded.file_mod_time`,
		existingID, d.Path, d.Frame.Nrow(), d.Frame.Ncol(), d.Target,
		d.IsDerived, notes, now.Format(time.RFC3339Nano), modTime,
	)
	if err != nil {
		return DatasetRecord{}, fmt.Errorf("upserting dataset: %w", err)
	}
	return s.datasetByPath(ctx, d.Path)
}

// RegisterDir loads every CSV file under dir and registers it, reporting
// per-file progress to w. Files that fail to load are counted, not fatal.
func (s *Store) RegisterDir(ctx context.Context, dir string, cfg types.DatasetConfig, w io.Writer) (RegisterSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return RegisterSummary{}, fmt.Errorf("reading dataset directory %s: %w", dir, err)
	}

	var summary RegisterSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())

		var existed bool
		var storedModTime string
		err := s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM datasets WHERE path = ?`, path,
		).Scan(&storedModTime)
		existed = err == nil

		if existed {
			if info, statErr := entry.Info(); statErr == nil &&
				info.ModTime().UTC().Format(time.RFC3339Nano) == storedModTime {
				fmt.Fprintf(w, "skipped    %s\n", entry.Name())
				summary.Skipped++
				continue
			}
		}

		d, err := dataset.Load(path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed     %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		if _, err := s.Register(ctx, d, ""); err != nil {
			fmt.Fprintf(w, "failed     %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		if existed {
			fmt.Fprintf(w, "updated    %s\n", entry.Name())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "registered %s\n", entry.Name())
			summary.Registered++
		}
	}

	fmt.Fprintf(w, "\nregistered: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Registered, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Registered > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}
	return summary, nil
}

// RecordSplit stores the parameters of a dataset split.
func (s *Store) RecordSplit(ctx context.Context, datasetID string, cfg types.SplitConfig) (SplitRecord, error) {
	rec := SplitRecord{
		ID:           uuid.NewString(),
		DatasetID:    datasetID,
		TestFrac:     cfg.Test,
		ValidateFrac: cfg.Validate,
		Seed:         cfg.Seed,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO splits (id, dataset_id, test_frac, validate_frac, seed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DatasetID, rec.TestFrac, rec.ValidateFrac, rec.Seed,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return SplitRecord{}, fmt.Errorf("inserting split: %w", err)
	}
	return rec, nil
}

// RecordRun stores the outcome of a model training run.
func (s *Store) RecordRun(ctx context.Context, datasetID, model, metricName string, metricValue float64) (RunRecord, error) {
	rec := RunRecord{
		ID:          uuid.NewString(),
		DatasetID:   datasetID,
		Model:       model,
		MetricName:  metricName,
		MetricValue: metricValue,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, dataset_id, model, metric_name, metric_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DatasetID, rec.Model, rec.MetricName, rec.MetricValue,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("inserting run: %w", err)
	}
	return rec, nil
}

// QueryOptions filters registry queries.
type QueryOptions struct {
	// Target restricts results to datasets with this target column.
	Target string

	// Text full-text searches notes and paths.
	Text string

	// MaxResults caps returned rows; 0 uses the store default.
	MaxResults int
}

// Query returns registered datasets matching the options, most recently
// registered first.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]DatasetRecord, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		rows *sql.Rows
		err  error
	)
	switch {
	case opts.Text != "":
		rows, err = s.db.QueryContext(ctx,
			`SELECT d.id, d.path, d.rows, d.cols, d.target, d.is_derived, d.notes, d.registered_at
			 FROM datasets d
			 JOIN datasets_fts f ON f.rowid = d.rowid
			 WHERE datasets_fts MATCH ?
			   AND (? = '' OR d.target = ?)
			 ORDER BY d.registered_at DESC LIMIT ?`,
			opts.Text, opts.Target, opts.Target, limit)
	case opts.Target != "":
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, path, rows, cols, target, is_derived, notes, registered_at
			 FROM datasets WHERE target = ?
			 ORDER BY registered_at DESC LIMIT ?`,
			opts.Target, limit)
	default:
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, path, rows, cols, target, is_derived, notes, registered_at
			 FROM datasets ORDER BY registered_at DESC LIMIT ?`,
			limit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var records []DatasetRecord
	for rows.Next() {
		rec, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Runs returns the recorded runs for a dataset, most recent first.
func (s *Store) Runs(ctx context.Context, datasetID string) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dataset_id, model, metric_name, metric_value, created_at
		 FROM runs WHERE dataset_id = ? ORDER BY created_at DESC`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.DatasetID, &rec.Model, &rec.MetricName, &rec.MetricValue, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) datasetByPath(ctx context.Context, path string) (DatasetRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, rows, cols, target, is_derived, notes, registered_at
		 FROM datasets WHERE path = ?`, path)
	return scanDataset(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (DatasetRecord, error) {
	var rec DatasetRecord
	var target, notes sql.NullString
	var registered string
	if err := row.Scan(&rec.ID, &rec.Path, &rec.Rows, &rec.Cols, &target, &rec.IsDerived, &notes, &registered); err != nil {
		return DatasetRecord{}, fmt.Errorf("scanning dataset: %w", err)
	}
	rec.Target = target.String
	rec.Notes = notes.String
	rec.RegisteredAt, _ = time.Parse(time.RFC3339Nano, registered)
	return rec, nil
}

// exportDoc is the document shape written by ExportYAML.
type exportDoc struct {
	Datasets []DatasetRecord `yaml:"datasets"`
	Splits   []SplitRecord   `yaml:"splits"`
	Runs     []RunRecord     `yaml:"runs"`
}

// ExportYAML writes the full registry to registryDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	doc := exportDoc{}

	datasets, err := s.Query(ctx, QueryOptions{MaxResults: 1 << 30})
	if err != nil {
		return err
	}
	doc.Datasets = datasets

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dataset_id, test_frac, validate_frac, seed, created_at FROM splits ORDER BY created_at`)
	if err != nil {
		return fmt.Errorf("querying splits: %w", err)
	}
	for rows.Next() {
		var rec SplitRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.DatasetID, &rec.TestFrac, &rec.ValidateFrac, &rec.Seed, &created); err != nil {
			rows.Close()
			return fmt.Errorf("scanning split: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		doc.Splits = append(doc.Splits, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, d := range doc.Datasets {
		runs, err := s.Runs(ctx, d.ID)
		if err != nil {
			return err
		}
		doc.Runs = append(doc.Runs, runs...)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshalling export: %w", err)
	}
	path := filepath.Join(s.registryDir, exportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
