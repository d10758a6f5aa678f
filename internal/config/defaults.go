package config

import "runtime"

const (
	defaultTranscriptsDir   = "public/transcripts"
	defaultClipsPath        = "data/clips.json"
	defaultStateDir         = "~/.local/share/clipsync"
	defaultLogDir           = "~/.local/share/clipsync/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultHistoryEnabled   = true
	defaultBackup           = true

	maxWorkers = 64
)

var defaultTranscriptFormats = []string{"html", "json", "vtt"}

func defaultWorkers() int {
	return min(max(runtime.NumCPU(), 1), maxWorkers)
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TranscriptsDir: defaultTranscriptsDir,
			ClipsPath:      defaultClipsPath,
			StateDir:       defaultStateDir,
			LogDir:         defaultLogDir,
		},
		Realign: Realign{
			Workers:           defaultWorkers(),
			TranscriptFormats: append([]string(nil), defaultTranscriptFormats...),
			Backup:            defaultBackup,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
	}
}
