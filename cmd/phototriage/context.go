package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"phototriage/internal/catalog"
	"phototriage/internal/config"
	"phototriage/internal/logging"
	"phototriage/internal/relocation"
	"phototriage/internal/session"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = fmt.Errorf("--log-level: %w", err)
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the command logger once; console output goes to out.
func (c *commandContext) ensureLogger(out io.Writer) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, out)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) destinations() relocation.Destinations {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		return relocation.Destinations{}
	}
	return relocation.Destinations{
		Backup: cfg.Destinations.RAWBackupDir,
		Edit:   cfg.Destinations.RAWEditDir,
		JPEG:   cfg.Destinations.JPEGDir,
		Delete: cfg.Destinations.DeleteDir,
	}
}

// triageSession bundles what a command needs to work on one input directory.
type triageSession struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *session.Store
	lock    *session.Lock
	catalog *catalog.Catalog
}

// openSession scans dirArg (or the configured input directory), restores
// saved marks and, when exclusive, takes the per-directory lock first.
func (c *commandContext) openSession(cmd *cobra.Command, dirArg string, exclusive bool) (*triageSession, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ResolveInputDir(dirArg)
	if err != nil {
		return nil, err
	}

	s := &triageSession{cfg: cfg, logger: logging.NewComponentLogger(logger, "cli")}
	if exclusive {
		lock, err := session.AcquireLock(cfg.Paths.StateDir, dir)
		if err != nil {
			return nil, err
		}
		s.lock = lock
	}

	store, err := session.Open(cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}
	s.store = store

	cat, err := catalog.Scan(dir, cfg.Photos.JPEGExtension, cfg.Photos.RAWExtension)
	if err != nil {
		s.Close()
		if errors.Is(err, catalog.ErrNoPhotosFound) && cat != nil && len(cat.JPEGOnly()) > 0 {
			return nil, fmt.Errorf("%w; unpaired: %s", err, strings.Join(cat.JPEGOnly(), ", "))
		}
		return nil, err
	}
	s.catalog = cat

	applied, err := store.Restore(commandCtx(cmd), cat)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("restore saved ratings: %w", err)
	}
	s.logger.Debug("catalog loaded",
		logging.String(logging.FieldInputDir, cat.InputDir()),
		logging.Int("photos", cat.Len()),
		logging.Int("jpeg_only", len(cat.JPEGOnly())),
		logging.Int("restored_marks", applied),
	)
	return s, nil
}

// Close releases the store and lock. It is safe to call more than once.
func (s *triageSession) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Debug("close session store", logging.Error(err))
		}
		s.store = nil
	}
	if s.lock != nil {
		if err := s.lock.Release(); err != nil {
			s.logger.Debug("release session lock", logging.Error(err))
		}
		s.lock = nil
	}
}

// resolvePhoto accepts a photo ID or a 1-based position in the catalog.
func resolvePhoto(cat *catalog.Catalog, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if idx, err := cat.Lookup(ref); err == nil {
		return idx, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if _, err := cat.Get(n - 1); err != nil {
			return -1, err
		}
		return n - 1, nil
	}
	return -1, fmt.Errorf("%w: %q (use a photo ID or its number from 'phototriage scan')", catalog.ErrUnknownPhoto, ref)
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
