package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/wonny/proptier/internal/contracts"
)

// Input roles recorded in the run manifest
const (
	RolePostcodes   = "postcodes"
	RoleDeprivation = "deprivation"
	RoleSales       = "sales"
)

// FileSource reads the three inputs from local files
// ⭐ SSOT: contracts.Ingester implementation
type FileSource struct {
	PostcodesPath   string
	DeprivationPath string
	SalesPath       string
}

var _ contracts.Ingester = (*FileSource)(nil)

// NewFileSource creates a file-based ingester
func NewFileSource(postcodes, deprivation, sales string) *FileSource {
	return &FileSource{
		PostcodesPath:   postcodes,
		DeprivationPath: deprivation,
		SalesPath:       sales,
	}
}

// AreaLinks reads the postcode lookup
func (s *FileSource) AreaLinks(ctx context.Context) ([]contracts.AreaLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadAreaLinks(s.PostcodesPath)
}

// Deprivation reads the IMD file
func (s *FileSource) Deprivation(ctx context.Context) ([]contracts.DeprivationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadDeprivation(s.DeprivationPath)
}

// Sales reads the Price Paid file
func (s *FileSource) Sales(ctx context.Context) ([]contracts.SaleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadSales(s.SalesPath)
}

// Path returns the file backing a role
func (s *FileSource) Path(role string) string {
	switch role {
	case RolePostcodes:
		return s.PostcodesPath
	case RoleDeprivation:
		return s.DeprivationPath
	case RoleSales:
		return s.SalesPath
	}
	return ""
}

// Describe hashes the input for a role; rows is the parsed record count
func (s *FileSource) Describe(role string, rows int) (contracts.InputFile, error) {
	path := s.Path(role)
	sum, err := FileSHA256(path)
	if err != nil {
		return contracts.InputFile{}, err
	}
	return contracts.InputFile{Role: role, Path: path, SHA256: sum, Rows: rows}, nil
}

// FileSHA256 returns the hex SHA-256 of a file's contents
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
