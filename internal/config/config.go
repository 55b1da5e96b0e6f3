package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable the scripts share. Values come from the
// environment, optionally seeded from a .env file in the working directory.
type Config struct {
	CredentialsFile string `envconfig:"FIRESTORE_CREDENTIALS" default:"serviceAccountKey.json"`
	ProjectID       string `envconfig:"FIRESTORE_PROJECT" required:"true"`

	// Destination project for cross-database copies (clonedb only).
	DestCredentialsFile string `envconfig:"DEST_FIRESTORE_CREDENTIALS"`
	DestProjectID       string `envconfig:"DEST_FIRESTORE_PROJECT"`

	Concurrency         int           `envconfig:"SCAN_CONCURRENCY" default:"5"`
	BatchSize           int           `envconfig:"BATCH_SIZE" default:"300"`
	SimilarityThreshold int           `envconfig:"SIMILARITY_THRESHOLD" default:"5"`
	RetryLimit          int           `envconfig:"FETCH_RETRY_LIMIT" default:"3"`
	FetchTimeout        time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	RemovePause         time.Duration `envconfig:"REMOVE_PAUSE" default:"50ms"`

	RestorePointFile string `envconfig:"RESTORE_POINT_FILE" default:"pitr_restore_point.txt"`
	RemovedLogFile   string `envconfig:"REMOVED_LOG_FILE" default:"removed_duplicates.txt"`

	// Optional S3 destination for export artifacts. Uploads are skipped
	// when the bucket is empty.
	ExportS3Bucket   string `envconfig:"EXPORT_S3_BUCKET"`
	ExportS3Endpoint string `envconfig:"EXPORT_S3_ENDPOINT"`
	ExportS3Region   string `envconfig:"EXPORT_S3_REGION"`
	ExportS3Key      string `envconfig:"EXPORT_S3_ACCESS_KEY"`
	ExportS3Secret   string `envconfig:"EXPORT_S3_SECRET_KEY"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
