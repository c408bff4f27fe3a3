package config

// Storage drivers.
const (
	StorageFilesystem = "fs"
	StorageS3         = "s3"
)

// Index drivers.
const (
	IndexSQLite   = "sqlite"
	IndexPostgres = "postgres"
)

const (
	defaultDataDir          = "~/.local/share/brewbook"
	defaultRecipesDirName   = "recipes"
	defaultLogDir           = "~/.local/share/brewbook/logs"
	defaultIndexFileName    = "index.db"
	defaultS3Region         = "us-east-1"
	defaultS3Prefix         = "recipes/"
	defaultServerBind       = "127.0.0.1:7488"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultBoilVolumeL      = 23.0
	defaultCalibrationTempC = 20.0
	defaultIndexEnabled     = true
	defaultServerMetrics    = true
	defaultStorageDriver    = StorageFilesystem
	defaultIndexDriver      = IndexSQLite
)

// Default returns a Config populated with repository defaults. Directory
// fields derived from the data directory are filled in by normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Storage: Storage{
			Driver: defaultStorageDriver,
		},
		S3: S3{
			Region: defaultS3Region,
			Prefix: defaultS3Prefix,
		},
		Index: Index{
			Enabled: defaultIndexEnabled,
			Driver:  defaultIndexDriver,
		},
		Server: Server{
			Bind:    defaultServerBind,
			Metrics: defaultServerMetrics,
		},
		Brewing: Brewing{
			DefaultBoilVolumeL: defaultBoilVolumeL,
			CalibrationTempC:   defaultCalibrationTempC,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
