package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dmx-editor/config"
	"dmx-editor/controller"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configPath, c.configSeen, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) controllerClient(cfg *config.Config, opts ...controller.Option) *controller.Client {
	opts = append([]controller.Option{controller.WithTimeout(cfg.RequestTimeout())}, opts...)
	return controller.NewClient(cfg.ControllerURL(), opts...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
