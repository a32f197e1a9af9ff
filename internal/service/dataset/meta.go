package dataset

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// SidecarName is the metadata file the external record producer writes next
// to the training data. Its per-entry schema is not constrained here.
const SidecarName = "sft-train-meta.jsonl"

// SidecarPath returns the metadata path for a given dataset path.
func SidecarPath(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), SidecarName)
}

// LoadSidecar reads metadata entries best-effort: a missing file or an
// unparseable line is not an error, it just yields fewer entries.
func LoadSidecar(path string) []map[string]any {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
