package logs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"clipsync/internal/logging"
)

// ErrNoLogs reports a log directory without any run logs.
var ErrNoLogs = errors.New("no run logs found")

// File is one run log on disk.
type File struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns the run logs in dir, newest first.
func List(dir string) ([]File, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logging.RunLogPattern))
	if err != nil {
		return nil, fmt.Errorf("glob run logs: %w", err)
	}
	files := make([]File, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, File{Path: path, Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Path > files[j].Path
		}
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// Latest returns the newest run log in dir.
func Latest(dir string) (string, error) {
	files, err := List(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}
	return files[0].Path, nil
}
