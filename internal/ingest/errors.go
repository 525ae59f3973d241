package ingest

import "fmt"

// SchemaError reports an input that does not match its expected layout
// Line is 1-based; 0 means the file as a whole (e.g. a missing header column).
type SchemaError struct {
	File    string
	Line    int
	Column  string
	Message string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("schema error: %s:%d: column %s: %s", e.File, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("schema error: %s:%d: %s", e.File, e.Line, e.Message)
	case e.Column != "":
		return fmt.Sprintf("schema error: %s: column %s: %s", e.File, e.Column, e.Message)
	default:
		return fmt.Sprintf("schema error: %s: %s", e.File, e.Message)
	}
}
