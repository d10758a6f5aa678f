package transcript

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Format names an on-disk transcript encoding. The value doubles as the file
// extension.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatVTT  Format = "vtt"
)

// DefaultFormats is the lookup order used when none is configured.
var DefaultFormats = []Format{FormatHTML, FormatJSON, FormatVTT}

// ParseFormat converts a configuration value to a Format.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatHTML, FormatJSON, FormatVTT:
		return f, nil
	case "htm":
		return FormatHTML, nil
	case "whisperx":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported transcript format %q", value)
	}
}

// Parse decodes r according to format and returns words ordered by timestamp.
func Parse(format Format, r io.Reader) ([]Word, error) {
	var (
		words []Word
		err   error
	)
	switch format {
	case FormatHTML:
		words, err = ParseHTML(r)
	case FormatJSON:
		words, err = ParseWhisperX(r)
	case FormatVTT:
		words, err = ParseVTT(r)
	default:
		return nil, fmt.Errorf("unsupported transcript format %q", format)
	}
	if err != nil {
		return nil, err
	}
	sortWords(words)
	return words, nil
}

func sortWords(words []Word) {
	slices.SortStableFunc(words, func(a, b Word) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
}
