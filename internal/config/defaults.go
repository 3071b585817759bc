package config

const (
	defaultStateDir         = "~/.local/share/picsort"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30

	// TargetDirEnv supplies paths.target_dir when the file leaves it empty.
	TargetDirEnv = "PICSORT_TARGET_DIR"
)

// DefaultExtensions are the suffixes picked up when discovery.extensions is unset.
var DefaultExtensions = []string{".jpg", ".jpeg", ".JPG", ".JPEG"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Naming: Naming{
			KeepOriginalName: true,
			PrependTimestamp: true,
		},
		Discovery: Discovery{
			Extensions: append([]string(nil), DefaultExtensions...),
			Recursive:  true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
