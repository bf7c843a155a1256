// Package ingest loads the QA source file, embeds records, and writes them
// into the vector collection in batches. Ingestion is an exclusive
// administrative operation: it must not run concurrently with itself or with
// searches against the same collection.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// rawRecord mirrors the source file schema. The source mixes QA entries with
// quiz entries; the latter carry an "options" field and are skipped.
type rawRecord struct {
	ID       int64           `json:"id"`
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	URL      string          `json:"url"`
	Category string          `json:"category"`
	Options  json.RawMessage `json:"options"`
}

// LoadRecords reads a sequence-of-records JSON file and returns the QA
// records in file order. Vectors are computed later by the pipeline.
func LoadRecords(path string) ([]domain.QARecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}

	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ingest: parse %s: %w", path, err)
	}

	records := make([]domain.QARecord, 0, len(raw))
	for _, r := range raw {
		if r.Options != nil {
			continue
		}
		records = append(records, domain.QARecord{
			ID:       r.ID,
			Question: r.Question,
			Answer:   r.Answer,
			URL:      r.URL,
			Category: r.Category,
		})
	}
	return records, nil
}
