package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// Output file names inside the prepared data directory.
const (
	TrainFile = "train.jsonl"
	ValidFile = "valid.jsonl"
)

// Write persists both halves of the split as line-delimited record files in
// dir, creating the directory tree if absent. Returns the written paths.
func (s Split) Write(dir string) (trainPath, validPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir %s: %w", dir, err)
	}

	trainPath = filepath.Join(dir, TrainFile)
	validPath = filepath.Join(dir, ValidFile)

	if err := writeRecords(trainPath, s.Train); err != nil {
		return "", "", err
	}
	if err := writeRecords(validPath, s.Valid); err != nil {
		return "", "", err
	}
	return trainPath, validPath, nil
}

func writeRecords(path string, records []record.ChatRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write record to %s: %w", path, err)
		}
	}
	return nil
}
