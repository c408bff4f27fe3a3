package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeS3()
	if err := c.normalizeIndex(); err != nil {
		return err
	}
	c.normalizeServer()
	if err := c.normalizeColors(); err != nil {
		return err
	}
	c.normalizeBrewing()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RecipesDir) == "" {
		c.Paths.RecipesDir = filepath.Join(c.Paths.DataDir, defaultRecipesDirName)
	}
	if c.Paths.RecipesDir, err = expandPath(c.Paths.RecipesDir); err != nil {
		return fmt.Errorf("paths.recipes_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaultStorageDriver
	}
}

func (c *Config) normalizeS3() {
	c.S3.Bucket = strings.TrimSpace(c.S3.Bucket)
	if c.S3.Bucket == "" {
		if value, ok := os.LookupEnv("BREWBOOK_S3_BUCKET"); ok {
			c.S3.Bucket = strings.TrimSpace(value)
		}
	}
	c.S3.Region = strings.TrimSpace(c.S3.Region)
	if c.S3.Region == "" {
		c.S3.Region = defaultS3Region
	}
	c.S3.Endpoint = strings.TrimSpace(c.S3.Endpoint)
	c.S3.AccessKeyID = strings.TrimSpace(c.S3.AccessKeyID)
	c.S3.SecretAccessKey = strings.TrimSpace(c.S3.SecretAccessKey)
	c.S3.Prefix = strings.TrimLeft(strings.TrimSpace(c.S3.Prefix), "/")
	if c.S3.Prefix != "" && !strings.HasSuffix(c.S3.Prefix, "/") {
		c.S3.Prefix += "/"
	}
}

func (c *Config) normalizeIndex() error {
	c.Index.Driver = strings.ToLower(strings.TrimSpace(c.Index.Driver))
	switch c.Index.Driver {
	case "":
		c.Index.Driver = defaultIndexDriver
	case "postgresql", "pgx":
		c.Index.Driver = IndexPostgres
	}
	c.Index.DSN = strings.TrimSpace(c.Index.DSN)
	if c.Index.DSN == "" {
		if value, ok := os.LookupEnv("BREWBOOK_INDEX_DSN"); ok {
			c.Index.DSN = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Index.Path) == "" {
		c.Index.Path = filepath.Join(c.Paths.DataDir, defaultIndexFileName)
	}
	var err error
	if c.Index.Path, err = expandPath(c.Index.Path); err != nil {
		return fmt.Errorf("index.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if c.Server.APIToken == "" {
		if value, ok := os.LookupEnv("BREWBOOK_API_TOKEN"); ok {
			c.Server.APIToken = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeColors() error {
	if strings.TrimSpace(c.Colors.TablePath) == "" {
		c.Colors.TablePath = ""
		return nil
	}
	var err error
	if c.Colors.TablePath, err = expandPath(c.Colors.TablePath); err != nil {
		return fmt.Errorf("colors.table_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeBrewing() {
	if c.Brewing.DefaultBoilVolumeL == 0 {
		c.Brewing.DefaultBoilVolumeL = defaultBoilVolumeL
	}
	if c.Brewing.CalibrationTempC == 0 {
		c.Brewing.CalibrationTempC = defaultCalibrationTempC
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
