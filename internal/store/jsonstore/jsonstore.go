package jsonstore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/idilsaglam/taskanalyzer/internal/model"
)

// Task files are a JSON array of entries shaped like the entry form.
// Nothing is written back: the task list lives for one session only.

// Entry is one record of a task file. Numbers may be given as JSON
// numbers or strings; coercion and its errors belong to the store.
type Entry struct {
	Title          string          `json:"title"`
	DueDate        string          `json:"due_date"`
	EstimatedHours json.RawMessage `json:"estimated_hours,omitempty"`
	Importance     json.RawMessage `json:"importance,omitempty"`
}

func (e Entry) Draft() model.Draft {
	return model.Draft{
		Title:          e.Title,
		DueDate:        e.DueDate,
		EstimatedHours: fieldText(e.EstimatedHours),
		Importance:     fieldText(e.Importance),
	}
}

// fieldText returns a JSON string's contents, or any other literal as written.
// Missing and null values are empty.
func fieldText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Load decodes a task file from r.
func Load(r io.Reader) ([]model.Draft, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	out := make([]model.Draft, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Draft())
	}
	return out, nil
}

// LoadFile reads a task file from disk.
func LoadFile(path string) ([]model.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Save writes a ranked list as indented JSON.
func Save(w io.Writer, ranked []model.ScoredTask) error {
	if ranked == nil {
		ranked = []model.ScoredTask{}
	}
	b, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
