package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeController()
	c.normalizeServer()
	if c.Editor.InitialCount == 0 {
		c.Editor.InitialCount = defaultInitialPresetCount
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeController() {
	if value, ok := os.LookupEnv(envControllerAddress); ok && strings.TrimSpace(value) != "" {
		c.Controller.Address = value
	}
	c.Controller.Address = strings.TrimSpace(c.Controller.Address)
	if c.Controller.RequestTimeoutSeconds == 0 {
		c.Controller.RequestTimeoutSeconds = defaultRequestTimeout
	}
}

func (c *Config) normalizeServer() {
	if value, ok := os.LookupEnv(envServerBind); ok && strings.TrimSpace(value) != "" {
		c.Server.Bind = value
	} else if port, ok := os.LookupEnv(envPort); ok && strings.TrimSpace(port) != "" {
		c.Server.Bind = ":" + strings.TrimSpace(port)
	}
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File != "" {
		expanded, err := ExpandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
