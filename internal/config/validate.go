package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePhotos(); err != nil {
		return err
	}
	if err := c.validateDestinations(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePhotos() error {
	if c.Photos.JPEGExtension == "" {
		return errors.New("photos.jpeg_extension must be set")
	}
	if c.Photos.RAWExtension == "" {
		return errors.New("photos.raw_extension must be set")
	}
	if c.Photos.JPEGExtension == c.Photos.RAWExtension {
		return fmt.Errorf("photos.jpeg_extension and photos.raw_extension must differ (both %q)", c.Photos.JPEGExtension)
	}
	if strings.ContainsAny(c.Photos.JPEGExtension+c.Photos.RAWExtension, `/\*?`) {
		return errors.New("photos extensions must be plain suffixes without path separators or wildcards")
	}
	return nil
}

func (c *Config) validateDestinations() error {
	dirs := []struct {
		key   string
		value string
	}{
		{"destinations.raw_backup_dir", c.Destinations.RAWBackupDir},
		{"destinations.raw_edit_dir", c.Destinations.RAWEditDir},
		{"destinations.jpeg_dir", c.Destinations.JPEGDir},
		{"destinations.delete_dir", c.Destinations.DeleteDir},
	}
	for _, dir := range dirs {
		if dir.value == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = defaultConfigPath
			}
			return fmt.Errorf("%s is required. Edit %s (create with 'phototriage config init')", dir.key, defaultPath)
		}
		info, err := os.Stat(dir.value)
		if err != nil {
			return fmt.Errorf("%s: no such directory %q", dir.key, dir.value)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s: %q is not a directory", dir.key, dir.value)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
