package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/pkg/config"
	"github.com/wonny/proptier/pkg/database"
)

// PostgreSQL objects written by the postgres sink
const (
	pgSchema = "proptier"
	pgTable  = "classified_sales"
)

const pgDDL = `
CREATE SCHEMA IF NOT EXISTS proptier;

CREATE TABLE IF NOT EXISTS proptier.pipeline_runs (
    run_id TEXT PRIMARY KEY,
    started_at TIMESTAMPTZ NOT NULL,
    model_hash TEXT NOT NULL,
    record_count INTEGER NOT NULL,
    manifest JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS proptier.classified_sales (
    id BIGSERIAL PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES proptier.pipeline_runs(run_id) ON DELETE CASCADE,
    transaction_id TEXT NOT NULL,
    price NUMERIC(14, 2) NOT NULL,
    date_of_transfer DATE,
    postcode TEXT,
    postcode_key TEXT,
    property_type TEXT,
    old_new TEXT,
    tenure TEXT,
    area_code TEXT,
    area_matched BOOLEAN NOT NULL,
    deprivation_rank INTEGER,
    deprivation_decile SMALLINT NOT NULL,
    deprivation_matched BOOLEAN NOT NULL,
    decile_imputed BOOLEAN NOT NULL,
    location_score SMALLINT NOT NULL,
    property_type_score SMALLINT NOT NULL,
    valuation_score SMALLINT NOT NULL,
    volatility_score SMALLINT NOT NULL,
    composite_score SMALLINT NOT NULL,
    tier CHAR(1) NOT NULL,
    tier_rank SMALLINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classified_sales_run ON proptier.classified_sales(run_id);
`

// PostgresExporter copies a run into PostgreSQL
type PostgresExporter struct {
	cfg config.DatabaseConfig
}

// NewPostgresExporter creates a postgres sink for the given URL
// Pool sizing comes from cfg; the URL replaces cfg.URL.
func NewPostgresExporter(url string, cfg config.DatabaseConfig) *PostgresExporter {
	cfg.URL = url
	return &PostgresExporter{cfg: cfg}
}

// Name returns the sink name
func (e *PostgresExporter) Name() string { return "postgres" }

// Export creates the schema if needed and bulk-loads the records with COPY
func (e *PostgresExporter) Export(ctx context.Context, manifest *contracts.RunManifest, records []contracts.EnrichedRecord) error {
	db, err := database.New(ctx, e.cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Pool.Exec(ctx, pgDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO proptier.pipeline_runs (run_id, started_at, model_hash, record_count, manifest) VALUES ($1, $2, $3, $4, $5)`,
		manifest.RunID, manifest.StartedAt, manifest.ModelHash, len(records), manifestJSON,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{pgSchema, pgTable},
		append([]string{"run_id"}, Columns...),
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			return append([]interface{}{manifest.RunID}, pgValues(&records[i])...), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy records: %w", err)
	}
	if int(n) != len(records) {
		return fmt.Errorf("copy records: wrote %d of %d", n, len(records))
	}

	return tx.Commit(ctx)
}

// pgValues adapts values for COPY: dates as time.Time, nil for empty
func pgValues(rec *contracts.EnrichedRecord) []interface{} {
	v := values(rec)
	if rec.Date.IsZero() {
		v[2] = nil
	} else {
		v[2] = rec.Date
	}
	return v
}
