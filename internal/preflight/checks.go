package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"clipsync/internal/clips"
	"clipsync/internal/history"
	"clipsync/internal/transcript"
)

// Access modes for CheckDirectoryAccess.
const (
	ReadOnly  uint32 = unix.R_OK | unix.X_OK
	ReadWrite uint32 = unix.R_OK | unix.W_OK | unix.X_OK
)

// CheckDirectoryAccess verifies that the directory exists and grants mode.
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, describeMode(mode))}
}

// CheckCreatableDirectory passes when path is a usable directory or can be
// created inside its nearest existing parent.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path, ReadWrite)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, ReadWrite); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first run)", path)}
}

// CheckDataset loads and validates the clip dataset. A dataset that does not
// load blocks a run. Clips with field errors are only skipped by a run, so
// they make the result advisory.
func CheckDataset(path string) (Result, *clips.Dataset) {
	const name = "Clip dataset"

	ds, err := clips.Load(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}, nil
	}
	if err := ds.Validate(); err != nil {
		return Result{
			Name:     name,
			Advisory: true,
			Detail:   "clips will be skipped: " + firstLine(err.Error()),
		}, ds
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (%d clips, %d interviews)", path, ds.Len(), len(ds.Interviews())),
	}, ds
}

// CheckTranscripts loads the transcript of every interview in ds and reports
// the ones that are missing. Missing transcripts do not stop a run, so this
// check is advisory.
func CheckTranscripts(ctx context.Context, source transcript.Source, ds *clips.Dataset) Result {
	const name = "Transcripts"

	interviews := ds.Interviews()
	var missing []string
	for _, id := range interviews {
		if _, err := source.Load(ctx, id); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{Name: name, Advisory: true, Detail: ctxErr.Error()}
			}
			if !errors.Is(err, transcript.ErrUnavailable) {
				return Result{Name: name, Advisory: true, Detail: err.Error()}
			}
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return Result{Name: name, Passed: true, Advisory: true, Detail: fmt.Sprintf("%d of %d interviews available", len(interviews), len(interviews))}
	}
	return Result{
		Name:     name,
		Advisory: true,
		Detail: fmt.Sprintf("%d of %d interviews missing: %s",
			len(missing), len(interviews), summarizeIDs(missing, 5)),
	}
}

// CheckHistory opens the run history database when it exists, which also
// verifies its schema version.
func CheckHistory(path string) Result {
	const name = "Run history"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first run)", path)}
	}
	store, err := history.Open(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: path}
}

func describeMode(mode uint32) string {
	if mode&unix.W_OK != 0 {
		return "read/write"
	}
	return "read"
}

func summarizeIDs(ids []string, limit int) string {
	if len(ids) <= limit {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(ids[:limit], ", "), len(ids)-limit)
}

func firstLine(s string) string {
	head, rest, found := strings.Cut(s, "\n")
	if !found {
		return s
	}
	return fmt.Sprintf("%s (+%d more)", head, strings.Count(rest, "\n")+1)
}
