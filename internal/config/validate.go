package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRealign(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TranscriptsDir) == "" {
		return errors.New("paths.transcripts_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ClipsPath) == "" {
		return errors.New("paths.clips_path must be set")
	}
	switch strings.ToLower(filepath.Ext(c.Paths.ClipsPath)) {
	case ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("paths.clips_path must end in .json, .yaml or .yml (got %q)", c.Paths.ClipsPath)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateRealign() error {
	if c.Realign.Workers < 1 || c.Realign.Workers > maxWorkers {
		return fmt.Errorf("realign.workers must be between 1 and %d", maxWorkers)
	}
	for _, f := range c.Realign.TranscriptFormats {
		switch f {
		case "html", "json", "vtt":
		default:
			return fmt.Errorf("realign.transcript_formats: unsupported format %q (want html, json or vtt)", f)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
