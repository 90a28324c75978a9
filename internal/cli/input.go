package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/veriscript/veriscript/internal/canon"
)

// readTranscript loads a transcript from disk. HTML exports (.html/.htm)
// are reduced to their visible text first; everything else is read as-is.
func readTranscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err := canon.FromHTML(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("parse HTML transcript: %w", err)
		}
		return text, nil
	}
	return string(data), nil
}
