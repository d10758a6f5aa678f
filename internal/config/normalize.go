package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

const (
	envTranscriptsDir = "CLIPSYNC_TRANSCRIPTS_DIR"
	envClipsPath      = "CLIPSYNC_CLIPS_PATH"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRealign()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envTranscriptsDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.TranscriptsDir = value
	}
	if value, ok := os.LookupEnv(envClipsPath); ok && strings.TrimSpace(value) != "" {
		c.Paths.ClipsPath = value
	}

	fields := []struct {
		name  string
		value *string
		def   string
	}{
		{"paths.transcripts_dir", &c.Paths.TranscriptsDir, defaultTranscriptsDir},
		{"paths.clips_path", &c.Paths.ClipsPath, defaultClipsPath},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, f := range fields {
		if strings.TrimSpace(*f.value) == "" {
			*f.value = f.def
		}
		expanded, err := expandPath(strings.TrimSpace(*f.value))
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.value = expanded
	}
	return nil
}

func (c *Config) normalizeRealign() {
	if c.Realign.Workers <= 0 {
		c.Realign.Workers = defaultWorkers()
	}
	formats := make([]string, 0, len(c.Realign.TranscriptFormats))
	for _, f := range c.Realign.TranscriptFormats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(formats, f) {
			continue
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		formats = append(formats, defaultTranscriptFormats...)
	}
	c.Realign.TranscriptFormats = formats
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
}
