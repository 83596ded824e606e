// Package targets loads the flat list of target identifiers a run acts upon.
package targets

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFromFile reads a newline-delimited target file. Each line is trimmed of
// surrounding whitespace; blank lines are dropped. Order is preserved.
// An empty result (no usable lines) is an error, since a run without targets
// is always a mistake.
func LoadFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening targets file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading targets file: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("targets file %s contains no targets", path)
	}
	return lines, nil
}
