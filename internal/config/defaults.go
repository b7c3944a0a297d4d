package config

const (
	defaultConfigPath    = "~/.config/phototriage/config.toml"
	defaultJPEGExtension = "JPG"
	defaultRAWExtension  = "ARW"
	defaultStateDir      = "~/.local/share/phototriage"
	defaultLogDir        = "~/.local/share/phototriage/logs"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	inputDirEnv = "PHOTOTRIAGE_INPUT_DIR"
)

// Default returns a Config populated with repository defaults. Destination
// directories have no default; they must be configured.
func Default() Config {
	return Config{
		Photos: Photos{
			JPEGExtension: defaultJPEGExtension,
			RAWExtension:  defaultRAWExtension,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
