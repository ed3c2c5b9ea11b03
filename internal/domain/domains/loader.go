package domains

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DataDir is the fixed folder where input and output files live.
const DataDir = "data"

// ErrFileNotFound is fatal: the run aborts when the domain list is missing.
var ErrFileNotFound = errors.New("domain file not found")

// Load reads a newline-delimited domain list. The path is tried as given
// first, then under the data folder. Lines come back lowercased and
// trimmed, blank lines skipped, input order preserved.
func Load(path string) ([]string, error) {
	candidates := []string{path, filepath.Join(DataDir, filepath.Base(path))}
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		return readLines(p)
	}
	return nil, fmt.Errorf("%w: %s (also tried %s)", ErrFileNotFound, path, filepath.Join(DataDir, filepath.Base(path)))
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.ToLower(strings.TrimSpace(s.Text()))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterKeyword returns the subsequence of domains containing the keyword,
// case-insensitive. This is plain substring containment: "tui" matches
// "intuitively.com" as well as "tui-corp.com". Order is preserved.
func FilterKeyword(domains []string, keyword string) []string {
	kw := strings.ToLower(keyword)
	var matches []string
	for _, d := range domains {
		if strings.Contains(strings.ToLower(d), kw) {
			matches = append(matches, d)
		}
	}
	return matches
}
