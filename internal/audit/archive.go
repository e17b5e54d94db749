package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Archive keeps a copy of every submitted lexicon upload on disk so an
// import can be replayed or inspected after the fact.
type Archive struct {
	Dir string
}

// ImportRecord is the envelope written next to each archived upload.
type ImportRecord struct {
	ID         string    `json:"id"`
	Principal  string    `json:"principal"`
	Source     string    `json:"source"`
	Lines      int       `json:"lines"`
	ReceivedAt time.Time `json:"received_at"`
	Payload    string    `json:"payload"`
}

func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

// SaveImport stores the raw upload as <uuid>.json and returns the record.
func (a *Archive) SaveImport(principal, source string, payload []byte) (*ImportRecord, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	record := &ImportRecord{
		ID:         uuid.New().String(),
		Principal:  principal,
		Source:     source,
		Lines:      countLines(payload),
		ReceivedAt: time.Now().UTC(),
		Payload:    string(payload),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import record: %w", err)
	}

	if err := os.WriteFile(a.path(record.ID), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write import record: %w", err)
	}

	return record, nil
}

// LoadImport reads back an archived upload by ID.
func (a *Archive) LoadImport(id string) (*ImportRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid import id %q: %w", id, err)
	}

	data, err := os.ReadFile(a.path(id))
	if err != nil {
		return nil, err
	}

	var record ImportRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode import record: %w", err)
	}
	return &record, nil
}

func (a *Archive) path(id string) string {
	return filepath.Join(a.Dir, id+".json")
}

func countLines(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	if b[len(b)-1] != '\n' {
		n++
	}
	return n
}
