package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/proptier/internal/contracts"
)

// NewManifest starts a manifest with a fresh run id
func NewManifest(modelHash string) *contracts.RunManifest {
	return &contracts.RunManifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		ModelHash: modelHash,
	}
}

// ManifestPath returns "<dir>/<name>.manifest.json" for an output file
func ManifestPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".manifest.json"
}

// WriteManifest writes the manifest as indented JSON
func WriteManifest(path string, m *contracts.RunManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest
func ReadManifest(path string) (*contracts.RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m contracts.RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
