package main

import (
	"strings"
	"sync"

	"inkdrop/internal/config"
	"inkdrop/internal/spool"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
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
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) layout() (spool.Layout, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return spool.Layout{}, err
	}
	return spool.Layout{Root: cfg.Paths.QueueRoot}, nil
}
