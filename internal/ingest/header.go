package ingest

import (
	"strings"
)

// column names a required input column and the header spellings that resolve to it
type column struct {
	Name    string
	Aliases []string
}

// BOM as UTF-8, and the same bytes mis-decoded as Latin-1
const (
	bomUTF8   = "\ufeff"
	bomLatin1 = "\u00ef\u00bb\u00bf"
)

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, bomUTF8)
	s = strings.TrimPrefix(s, bomLatin1)
	return strings.ToLower(strings.TrimSpace(s))
}

// resolveColumns maps each required column to its index in header
// The first missing column is returned as a SchemaError.
func resolveColumns(file string, header []string, cols []column) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		key := normalizeHeader(cell)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	out := make(map[string]int, len(cols))
	for _, c := range cols {
		found := false
		for _, name := range append([]string{c.Name}, c.Aliases...) {
			if i, ok := index[normalizeHeader(name)]; ok {
				out[c.Name] = i
				found = true
				break
			}
		}
		if !found {
			return nil, &SchemaError{File: file, Column: c.Name, Message: "required column missing"}
		}
	}
	return out, nil
}

// hasColumns reports whether header resolves every column
func hasColumns(header []string, cols []column) bool {
	_, err := resolveColumns("", header, cols)
	return err == nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
