package config

const (
	defaultConfigPath             = "~/.config/clipgrid/config.toml"
	defaultStateDir               = "~/.local/share/clipgrid"
	defaultLogDir                 = "~/.local/share/clipgrid/logs"
	defaultExportDir              = "~/Downloads"
	defaultGap                    = 8
	defaultPadding                = 28
	defaultToolbarHeight          = 48
	defaultSlots                  = 12
	defaultRotateIntervalMS       = 3000
	defaultDigitDebounceMS        = 600
	defaultRotationTimeoutSeconds = 120
	defaultFFprobeBinary          = "ffprobe"
	defaultClipSeconds            = 10
	defaultOrderFileName          = "clip-order.txt"
	defaultHistoryLimit           = 50
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Layout: Layout{
			Gap:           defaultGap,
			Padding:       defaultPadding,
			ToolbarHeight: defaultToolbarHeight,
		},
		Presentation: Presentation{
			Slots:                  defaultSlots,
			RotateIntervalMS:       defaultRotateIntervalMS,
			DigitDebounceMS:        defaultDigitDebounceMS,
			RotationTimeoutSeconds: defaultRotationTimeoutSeconds,
		},
		Media: Media{
			FFprobeBinary:      defaultFFprobeBinary,
			ProbeDurations:     true,
			DefaultClipSeconds: defaultClipSeconds,
		},
		Order: Order{
			FileName:     defaultOrderFileName,
			HistoryLimit: defaultHistoryLimit,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
