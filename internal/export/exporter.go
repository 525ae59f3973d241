// Package export writes the classified table to its configured sinks (S4).
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/pkg/config"
)

// FileSink is an exporter that writes a local file
type FileSink interface {
	contracts.Exporter
	Path() string
}

// New returns the exporter for a target
// Targets are file paths (.csv, .xlsx, .db, .sqlite, .sqlite3) or postgres URLs.
func New(target string, db config.DatabaseConfig) (contracts.Exporter, error) {
	if IsPostgresURL(target) {
		return NewPostgresExporter(target, db), nil
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".csv":
		return NewCSVExporter(target), nil
	case ".xlsx":
		return NewXLSXExporter(target), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteExporter(target), nil
	default:
		return nil, fmt.Errorf("unsupported export target %q (want .csv, .xlsx, .db, .sqlite or a postgres:// URL)", target)
	}
}

// NewAll resolves every target, failing on the first unsupported one
func NewAll(targets []string, db config.DatabaseConfig) ([]contracts.Exporter, error) {
	out := make([]contracts.Exporter, 0, len(targets))
	for _, t := range targets {
		e, err := New(t, db)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// IsPostgresURL reports whether target is a PostgreSQL connection URL
func IsPostgresURL(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// Describe returns a printable target: file path, or URL without credentials
func Describe(e contracts.Exporter) string {
	switch s := e.(type) {
	case FileSink:
		return s.Path()
	case *PostgresExporter:
		return redactURL(s.cfg.URL)
	}
	return e.Name()
}

func redactURL(url string) string {
	scheme := strings.Index(url, "://")
	at := strings.LastIndex(url, "@")
	if scheme < 0 || at < scheme {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}
