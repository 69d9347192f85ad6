package postgres

import (
	"encoding/json"
	"fmt"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
)

// marshalRecordJSON encodes the full upstream shape for the data column.
func marshalRecordJSON(r v1.Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record %s: %w", r.Key(), err)
	}
	return data, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans one data column back into a Record.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRecordRow(row scanner) (v1.Record, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		return v1.Record{}, fmt.Errorf("failed to scan record row: %w", err)
	}

	var r v1.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return v1.Record{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return r, nil
}
