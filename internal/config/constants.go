package config

// Application constants
const (
	AppName    = "jobsingest"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment overrides, e.g. JOBSINGEST_INGEST_BUCKET_MINUTES
	EnvPrefix = "JOBSINGEST"

	// Ingest defaults
	DefaultOutPath       = "docker/db/init/jobs_like.csv"
	DefaultCityID        = 1
	DefaultBucketMinutes = 60
	// MaxBucketMinutes mirrors the lte bound on IngestConfig.BucketMinutes
	MaxBucketMinutes     = 1000000

	// Log settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogOutput   = "console"
	DefaultLogFilePath = "logs/jobsingest.log"

	// Telemetry
	DefaultTraceExporter = "none"
)

// configFileLocations are searched in order when no config file is given
var configFileLocations = []string{
	"jobsingest.yaml",
	"configs/jobsingest.yaml",
}
