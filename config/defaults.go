package config

const (
	defaultControllerAddress  = "192.168.1.100"
	defaultRequestTimeout     = 5
	defaultServerBind         = "127.0.0.1:8080"
	defaultInitialPresetCount = 3
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultConfigPath         = "~/.config/dmx-editor/config.toml"
	projectConfigName         = "dmx-editor.toml"
	envControllerAddress      = "DMX_CONTROLLER_ADDRESS"
	envServerBind             = "DMX_EDITOR_BIND"
	envPort                   = "PORT"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Controller: Controller{
			Address:               defaultControllerAddress,
			RequestTimeoutSeconds: defaultRequestTimeout,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Editor: Editor{
			InitialCount: defaultInitialPresetCount,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
