package dataset_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
	"github.com/sibyl-lab/sibyl-sft/internal/service/dataset"
)

func makeRecords(n int) []record.ChatRecord {
	records := make([]record.ChatRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, record.ChatRecord{Messages: []record.Message{
			{Role: record.RoleSystem, Content: "sys"},
			{Role: record.RoleUser, Content: fmt.Sprintf("board %d", i)},
			{Role: record.RoleAssistant, Content: `{"thinking":"x"}`},
		}})
	}
	return records
}

func TestSplitFormula(t *testing.T) {
	cases := []struct {
		n, train, valid int
	}{
		{1, 1, 0},
		{2, 1, 1},
		{5, 4, 1},
		{10, 9, 1},
		{100, 90, 10},
	}

	for _, tc := range cases {
		split, err := dataset.SplitRecords(makeRecords(tc.n))
		if err != nil {
			t.Fatalf("n=%d: SplitRecords err: %v", tc.n, err)
		}
		if len(split.Train) != tc.train {
			t.Fatalf("n=%d: train size got %d want %d", tc.n, len(split.Train), tc.train)
		}
		if len(split.Valid) != tc.valid {
			t.Fatalf("n=%d: valid size got %d want %d", tc.n, len(split.Valid), tc.valid)
		}
		if len(split.Train)+len(split.Valid) != tc.n {
			t.Fatalf("n=%d: partition does not cover input", tc.n)
		}
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	records := makeRecords(10)
	split, err := dataset.SplitRecords(records)
	if err != nil {
		t.Fatalf("SplitRecords err: %v", err)
	}

	for i, rec := range split.Train {
		if rec.Messages[1].Content != records[i].Messages[1].Content {
			t.Fatalf("train[%d] is not the input prefix", i)
		}
	}
	for i, rec := range split.Valid {
		if rec.Messages[1].Content != records[len(split.Train)+i].Messages[1].Content {
			t.Fatalf("valid[%d] is not the input suffix", i)
		}
	}
}

func TestSplitEmpty(t *testing.T) {
	_, err := dataset.SplitRecords(nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !errors.Is(err, dataset.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if !errors.Is(err, dataset.ErrMissingData) {
		t.Fatalf("empty dataset must also be missing data, got %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	split, err := dataset.SplitRecords(makeRecords(10))
	if err != nil {
		t.Fatalf("SplitRecords err: %v", err)
	}

	trainPath, validPath, err := split.Write(filepath.Join(dir, "out", "data"))
	if err != nil {
		t.Fatalf("Write err: %v", err)
	}

	reloaded, err := dataset.Load(trainPath)
	if err != nil {
		t.Fatalf("Load train err: %v", err)
	}
	if len(reloaded) != 9 {
		t.Fatalf("train round trip: got %d records want 9", len(reloaded))
	}
	for i, rec := range reloaded {
		roles := rec.Roles()
		if len(roles) != 3 || roles[0] != record.RoleSystem || roles[1] != record.RoleUser || roles[2] != record.RoleAssistant {
			t.Fatalf("record %d role sequence changed: %v", i, roles)
		}
	}

	valid, err := dataset.Load(validPath)
	if err != nil {
		t.Fatalf("Load valid err: %v", err)
	}
	if len(valid) != 1 {
		t.Fatalf("valid round trip: got %d records want 1", len(valid))
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	line := `{"messages":[{"role":"system","content":"S"},{"role":"user","content":"U"}]}`
	content := line + "\n\n   \n" + line + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	records, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestLoadAbortsOnBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	content := `{"messages":[{"role":"system","content":"S"},{"role":"user","content":"U"}]}` + "\nnot json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := dataset.Load(path)
	if err == nil {
		t.Fatal("expected error on malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error should name the offending line: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, dataset.ErrMissingData) {
		t.Fatalf("expected ErrMissingData, got %v", err)
	}
}

func TestLoadForTrainingRejectsInferenceOnlyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	content := `{"messages":[{"role":"system","content":"S"},{"role":"user","content":"U"}]}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := dataset.LoadForTraining(path); err == nil {
		t.Fatal("expected role-set violation for a record without assistant turn")
	}
}

func TestLoadSidecarBestEffort(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "sft-train.jsonl")

	// No sidecar at all: nil, no error.
	if entries := dataset.LoadSidecar(dataset.SidecarPath(dataPath)); entries != nil {
		t.Fatalf("expected no entries, got %d", len(entries))
	}

	content := `{"tag":"a"}` + "\nbroken line\n" + `{"tag":"b"}` + "\n"
	if err := os.WriteFile(dataset.SidecarPath(dataPath), []byte(content), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	entries := dataset.LoadSidecar(dataset.SidecarPath(dataPath))
	if len(entries) != 2 {
		t.Fatalf("expected 2 parseable entries, got %d", len(entries))
	}
}
