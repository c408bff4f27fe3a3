package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateBrewing(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case StorageFilesystem:
		if c.Paths.RecipesDir == "" {
			return errors.New("paths.recipes_dir must be set when storage.driver is fs")
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/brewbook/config.toml"
			}
			return fmt.Errorf("s3.bucket is required when storage.driver is s3. Set BREWBOOK_S3_BUCKET env var or edit %s", defaultPath)
		}
		if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
			return errors.New("s3.access_key_id and s3.secret_access_key must be set together")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported (use fs or s3)", c.Storage.Driver)
	}
	return nil
}

func (c *Config) validateIndex() error {
	if !c.Index.Enabled {
		return nil
	}
	switch c.Index.Driver {
	case IndexSQLite:
		if c.Index.Path == "" {
			return errors.New("index.path must be set when index.driver is sqlite")
		}
	case IndexPostgres:
		if c.Index.DSN == "" {
			return errors.New("index.dsn must be set when index.driver is postgres (or set BREWBOOK_INDEX_DSN)")
		}
	default:
		return fmt.Errorf("index.driver %q is not supported (use sqlite or postgres)", c.Index.Driver)
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q: %w", c.Server.Bind, err)
	}
	return nil
}

func (c *Config) validateBrewing() error {
	if c.Brewing.DefaultBoilVolumeL < 0 {
		return errors.New("brewing.default_boil_volume_l must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
}
