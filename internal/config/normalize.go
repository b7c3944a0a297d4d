package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePhotos(); err != nil {
		return err
	}
	if err := c.normalizeDestinations(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePhotos() error {
	if strings.TrimSpace(c.Photos.InputDir) == "" {
		if value, ok := os.LookupEnv(inputDirEnv); ok {
			c.Photos.InputDir = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Photos.InputDir, err = expandPath(strings.TrimSpace(c.Photos.InputDir)); err != nil {
		return fmt.Errorf("photos.input_dir: %w", err)
	}
	c.Photos.JPEGExtension = normalizeExtension(c.Photos.JPEGExtension)
	c.Photos.RAWExtension = normalizeExtension(c.Photos.RAWExtension)
	return nil
}

// normalizeExtension strips whitespace and a leading dot. Case is preserved
// because matching is case-sensitive.
func normalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.TrimSpace(ext), ".")
}

func (c *Config) normalizeDestinations() error {
	fields := []struct {
		key   string
		value *string
	}{
		{"destinations.raw_backup_dir", &c.Destinations.RAWBackupDir},
		{"destinations.raw_edit_dir", &c.Destinations.RAWEditDir},
		{"destinations.jpeg_dir", &c.Destinations.JPEGDir},
		{"destinations.delete_dir", &c.Destinations.DeleteDir},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
