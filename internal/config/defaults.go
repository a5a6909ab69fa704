package config

const (
	defaultQueueRoot        = "/var/spool/inkdrop"
	defaultScratchDir       = "/var/spool/cups/tmp"
	defaultSystemConfigPath = "/etc/inkdrop/config.toml"
	defaultUserConfigPath   = "~/.config/inkdrop/config.toml"
	defaultLogLevel         = "info"
	defaultLogFormat        = "cups"
	defaultJournalEnabled   = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			QueueRoot:  defaultQueueRoot,
			ScratchDir: defaultScratchDir,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
