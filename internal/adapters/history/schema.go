// Package history reads and writes session records as portable files.
package history

import (
	"fmt"
	"time"

	"github.com/xvierd/fast-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int            `toml:"version" json:"version" yaml:"version"`
	Generated string         `toml:"generated,omitempty" json:"generated,omitempty" yaml:"generated,omitempty"`
	Records   []recordSchema `toml:"records" json:"records" yaml:"records"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported history schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

type recordSchema struct {
	ID              string `toml:"id,omitempty" json:"id,omitempty" yaml:"id,omitempty"`
	Date            string `toml:"date" json:"date" yaml:"date"`
	Protocol        string `toml:"protocol" json:"protocol" yaml:"protocol"`
	DurationSeconds int    `toml:"duration_seconds" json:"duration_seconds" yaml:"duration_seconds"`
	Completed       bool   `toml:"completed" json:"completed" yaml:"completed"`
}

func toSchema(records []*domain.SessionRecord, generatedAt time.Time) fileSchema {
	file := fileSchema{
		Version: currentSchemaVersion,
		Records: make([]recordSchema, 0, len(records)),
	}
	if !generatedAt.IsZero() {
		file.Generated = generatedAt.Format(time.RFC3339)
	}
	for _, r := range records {
		file.Records = append(file.Records, recordSchema{
			ID:              r.ID,
			Date:            r.Date,
			Protocol:        r.ProtocolName,
			DurationSeconds: r.DurationSeconds,
			Completed:       r.Completed,
		})
	}
	return file
}

// toDomain validates rows into new records. Imported records always get
// fresh IDs so a file can be imported into any history.
func (s fileSchema) toDomain() ([]*domain.SessionRecord, error) {
	records := make([]*domain.SessionRecord, 0, len(s.Records))
	for i, row := range s.Records {
		r, err := domain.NewSessionRecord(row.Date, row.Protocol, row.DurationSeconds, row.Completed)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}
