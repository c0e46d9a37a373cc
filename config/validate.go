package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"dmx-editor/preset"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateController(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateController() error {
	if c.Controller.Address == "" {
		return fmt.Errorf("controller.address is required. Set %s or edit the config file (create with 'dmx-editor config init')", envControllerAddress)
	}
	u, err := url.Parse(c.ControllerURL())
	if err != nil || u.Host == "" {
		return fmt.Errorf("controller.address %q is not a valid host or URL", c.Controller.Address)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("controller.address scheme must be http or https, got %q", u.Scheme)
	}
	if c.Controller.RequestTimeoutSeconds < 1 || c.Controller.RequestTimeoutSeconds > 60 {
		return errors.New("controller.request_timeout_seconds must be between 1 and 60")
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q: %w", c.Server.Bind, err)
	}
	return nil
}

func (c *Config) validateEditor() error {
	if c.Editor.InitialCount < preset.MinCount || c.Editor.InitialCount > preset.Capacity {
		return fmt.Errorf("editor.initial_count must be between %d and %d", preset.MinCount, preset.Capacity)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
