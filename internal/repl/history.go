package repl

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadHistory reads a history file written by SaveHistory. Entries are stored
// one per line as quoted strings so multi-line snippets survive. A missing
// file yields no entries.
func LoadHistory(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if entry, err := strconv.Unquote(line); err == nil {
			line = entry
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return entries, nil
}

// SaveHistory writes entries to path, replacing its contents.
func SaveHistory(path string, entries []string) error {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(strconv.Quote(entry))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
