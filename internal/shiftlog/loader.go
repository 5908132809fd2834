package shiftlog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// LoadRecords reads a JSON array of Records from disk.
// This is the CLI entry point for pre-parsed shift logs; spreadsheet/CSV
// ingestion lives in the upstream tooling, not here.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records file %q: %w", path, err)
	}

	log.Debug().Str("path", path).Int("count", len(records)).Msg("Loaded shift records")
	return records, nil
}
