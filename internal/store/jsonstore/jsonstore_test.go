package jsonstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskanalyzer/internal/model"
	"github.com/idilsaglam/taskanalyzer/internal/store"
)

func TestLoad_NumbersAndStrings(t *testing.T) {
	in := `[
	  {"title": "A", "due_date": "2099-01-01", "estimated_hours": 1, "importance": 10},
	  {"title": "B", "due_date": "2099-01-01", "estimated_hours": "2.5", "importance": "3"},
	  {"title": "C", "due_date": ""}
	]`
	drafts, err := Load(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, model.Draft{Title: "A", DueDate: "2099-01-01", EstimatedHours: "1", Importance: "10"}, drafts[0])
	assert.Equal(t, "2.5", drafts[1].EstimatedHours)
	assert.Equal(t, "3", drafts[1].Importance)
	assert.Equal(t, model.Draft{Title: "C"}, drafts[2])
}

func TestLoad_NonNumericLeftToStore(t *testing.T) {
	in := `[
	  {"title": "A", "due_date": "d", "estimated_hours": "x"},
	  {"title": "B", "due_date": "d", "importance": true, "estimated_hours": null}
	]`
	drafts, err := Load(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "x", drafts[0].EstimatedHours)
	assert.Equal(t, "true", drafts[1].Importance)
	assert.Empty(t, drafts[1].EstimatedHours)

	_, _, err = store.Store{}.AddDraft(drafts[0], 1)
	require.ErrorIs(t, err, model.ErrValidation)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "estimated_hours", ve.Field)

	_, _, err = store.Store{}.AddDraft(drafts[1], 2)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "importance", ve.Field)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(strings.NewReader(`{"tasks": []}`))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(p, []byte(`[{"title":"A","due_date":"2024-01-01"}]`), 0o644))

	drafts, err := LoadFile(p)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave(t *testing.T) {
	var buf bytes.Buffer
	ranked := []model.ScoredTask{{
		Task:          model.Task{ID: 1, Title: "A", DueDate: "2024-01-01", EstimatedHours: 2, Importance: 5},
		PriorityScore: 66,
	}}
	require.NoError(t, Save(&buf, ranked))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0]["title"])
	assert.Equal(t, 66.0, got[0]["priority_score"])

	buf.Reset()
	require.NoError(t, Save(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
