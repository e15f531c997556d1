package main

import (
	"strings"
	"sync"

	"lectern/internal/collection"
	"lectern/internal/config"
	"lectern/internal/resolve"
	"lectern/internal/store"
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// openStore opens the database for one command invocation. The caller
// closes it.
func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

func (c *commandContext) collectionService(st *store.Store) *collection.Service {
	return collection.NewService(st, nil, nil)
}

func (c *commandContext) resolver(st *store.Store) *resolve.Resolver {
	return resolve.NewResolver(st)
}
