package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"clipsync/internal/textutil"
)

// ErrUnavailable marks a transcript that cannot be loaded for an interview.
var ErrUnavailable = errors.New("transcript unavailable")

// Source loads the transcript for an interview.
type Source interface {
	Load(ctx context.Context, interviewID string) (*Transcript, error)
}

// FileSource reads transcripts named <interview-id>.<format> from a directory.
type FileSource struct {
	dir     string
	formats []Format
}

// NewFileSource builds a FileSource. A nil or empty formats list uses
// DefaultFormats.
func NewFileSource(dir string, formats []Format) *FileSource {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	return &FileSource{dir: dir, formats: append([]Format(nil), formats...)}
}

// Load returns the first transcript found for interviewID in format order.
func (s *FileSource) Load(ctx context.Context, interviewID string) (*Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := textutil.SanitizeFileName(interviewID)
	if name == "" {
		return nil, fmt.Errorf("%w: invalid interview id %q", ErrUnavailable, interviewID)
	}

	for _, format := range s.formats {
		path := filepath.Join(s.dir, name+"."+string(format))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, path, err)
		}
		words, err := Parse(format, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: %s has no timed words", ErrUnavailable, path)
		}
		return &Transcript{InterviewID: interviewID, Path: path, Format: format, Words: words}, nil
	}

	tried := make([]string, 0, len(s.formats))
	for _, f := range s.formats {
		tried = append(tried, string(f))
	}
	return nil, fmt.Errorf("%w: no %s transcript for %q in %s", ErrUnavailable, strings.Join(tried, "/"), interviewID, s.dir)
}
