package config

const (
	defaultDataDir      = "~/.local/share/lectern"
	defaultLogDir       = "~/.local/share/lectern/logs"
	defaultAPIBind      = "127.0.0.1:7319"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultTranslation  = "kjv"
	defaultRepeatChorus = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Presentation: Presentation{
			DefaultTranslation: defaultTranslation,
			RepeatChorus:       defaultRepeatChorus,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
