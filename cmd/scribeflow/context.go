package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/eventstream"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     logger.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := ensureDirectories(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) log() logger.Logger {
	c.loggerOnce.Do(func() {
		opts := logger.Options{}
		if c.config != nil {
			opts.Level = c.config.Logging.Level
			opts.Format = c.config.Logging.Format
		}
		if lvl := strings.TrimSpace(*c.logLevelFlag); lvl != "" {
			opts.Level = lvl
		}
		c.logger = logger.NewWithOptions(opts)
	})
	return c.logger
}

// startEvents serves the event stream when events.addr is configured. The
// returned hub is nil otherwise.
func (c *commandContext) startEvents(ctx context.Context) *eventstream.Hub {
	if c.config == nil || c.config.Events.Addr == "" {
		return nil
	}
	log := c.log()
	hub := eventstream.NewHub(log)
	go func() {
		if err := eventstream.Serve(ctx, c.config.Events.Addr, hub, log); err != nil {
			log.Error(ctx, "Event stream stopped: %v", err)
		}
	}()
	return hub
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
