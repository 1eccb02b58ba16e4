package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSink archives rendered reports under a base directory.
type FileSink struct {
	Dir string
}

func (s FileSink) Write(name string, contents []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// List returns the archived report names, newest first. Report names embed
// the business date and generation time, so reverse name order is age order.
func (s FileSink) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Read returns one archived report. The name must be a bare file name from
// List; anything path-shaped reads as absent.
func (s FileSink) Read(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("read report %q: %w", name, os.ErrNotExist)
	}
	contents, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return contents, nil
}
