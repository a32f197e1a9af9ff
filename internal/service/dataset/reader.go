package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

var (
	// ErrMissingData marks a run that cannot start: the input file is absent
	// or holds no records.
	ErrMissingData = errors.New("training data not found")

	// ErrEmptyDataset is the splitter's zero-record failure. It wraps
	// ErrMissingData so both identities hold for callers.
	ErrEmptyDataset = fmt.Errorf("dataset contains no records: %w", ErrMissingData)
)

// Board states can run long; allow record lines up to 4 MiB.
const maxLineBytes = 4 * 1024 * 1024

// Load reads a line-delimited record file. Blank lines are skipped; the first
// line that fails to parse aborts the load, so no partial dataset is silently
// accepted.
func Load(path string) ([]record.ChatRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run the record converter first)", ErrMissingData, path)
		}
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	var records []record.ChatRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := record.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	return records, nil
}

// LoadForTraining loads records and enforces the training-context role
// invariant on each.
func LoadForTraining(path string) ([]record.ChatRecord, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if err := record.ValidateForTraining(rec); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, i+1, err)
		}
	}
	return records, nil
}
