package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HistoryExport is the only externally persisted artifact.
type HistoryExport struct {
	Room       string            `json:"room"`
	ExportDate time.Time         `json:"exportDate"`
	Messages   []ExportedMessage `json:"messages"`
}

type ExportedMessage struct {
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Filename derives the download name, chat-history-<room>-<date>.json.
func (e HistoryExport) Filename() string {
	return fmt.Sprintf("chat-history-%s-%s.json", e.Room, e.ExportDate.Format("2006-01-02"))
}

// WriteExport stores the indented export document under dir and returns the
// written path.
func WriteExport(dir string, export HistoryExport) (string, error) {
	bytes, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, export.Filename())
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
