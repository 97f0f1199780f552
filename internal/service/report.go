package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/language-enforcer/internal/models"
)

const reportFileName = "reported_issues.jsonl"

// Reporter appends reported issues to a JSONL file next to the local
// database. Append-only; nothing in the core reads it back.
type Reporter struct {
	path string
}

func NewReporter(dataDir string) *Reporter {
	return &Reporter{path: filepath.Join(dataDir, reportFileName)}
}

func (r *Reporter) Append(issue models.ReportedIssue) error {
	line, err := json.Marshal(issue)
	if err != nil {
		return fmt.Errorf("encode reported issue (card_id: %s): %w", issue.CardID, err)
	}

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file (path: %s): %w", r.path, err)
	}
	defer file.Close()

	if _, err = file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append reported issue (card_id: %s): %w", issue.CardID, err)
	}
	return nil
}
