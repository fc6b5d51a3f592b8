package conversation

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteReport stores a snapshot of the session as indented JSON in dir and
// returns the file path. An empty dir means the system temp directory.
func WriteReport(dir string, s *Session) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create report dir: %w", err)
		}
	}

	file, err := os.CreateTemp(dir, "candidate_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	snapshot := s.Snapshot()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&snapshot); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReadReport loads a session previously stored by WriteReport.
func ReadReport(path string) (*Session, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var s Session
	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &s, nil
}
