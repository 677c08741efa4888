package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/RMahshie/srfresample/pkg/models"
)

// Keys shared between environment variables, .env files and bound flags
const (
	KeySeparator  = "SRF_SEP"
	KeyIgnore     = "SRF_IGNORE"
	KeyWvCol      = "SRF_WVCOL"
	KeyRCol       = "SRF_RCOL"
	KeySample     = "SRF_SAMPLE"
	KeyMethod     = "SRF_METHOD"
	KeyWorkers    = "SRF_WORKERS"
	KeyLogLevel   = "LOG_LEVEL"
	KeyPort       = "PORT"
	KeyDatabase   = "DATABASE_URL"
	KeyS3Bucket   = "S3_BUCKET"
	KeyS3Endpoint = "S3_ENDPOINT"
)

// Config holds all configuration for the application
type Config struct {
	Resample ResampleConfig
	Log      LogConfig
	Database DatabaseConfig
	Server   ServerConfig
	AWS      AWSConfig
}

// ResampleConfig holds the defaults for a resampling pass
type ResampleConfig struct {
	Separator        string
	Ignore           int
	WavelengthColumn int
	ResponseColumn   int
	Sample           float64
	Method           models.ResampleMethod
	Workers          int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level zerolog.Level
}

// DatabaseConfig holds database configuration. An empty URL keeps runs in memory.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// AWSConfig holds AWS/S3 configuration. An empty bucket disables object storage.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string
}

var envKeys = []string{
	KeySeparator, KeyIgnore, KeyWvCol, KeyRCol, KeySample, KeyMethod, KeyWorkers, KeyLogLevel,
	KeyDatabase, KeyPort, "ENVIRONMENT", "ALLOWED_ORIGINS",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", KeyS3Bucket, KeyS3Endpoint,
}

// New returns a viper instance with defaults set, the .env file for the
// current environment read and environment variables bound.
func New() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault(KeySeparator, "")
	v.SetDefault(KeyIgnore, 0)
	v.SetDefault(KeyWvCol, 0)
	v.SetDefault(KeyRCol, 1)
	v.SetDefault(KeySample, 1.0)
	v.SetDefault(KeyMethod, string(models.NearNeighbour))
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDatabase, "")
	v.SetDefault(KeyPort, "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault(KeyS3Bucket, "")
	v.SetDefault(KeyS3Endpoint, "")

	// Environment variables override .env file values
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev" // Use "dev" to match .env.dev filename
	}

	// Read .env file (ignore error if file doesn't exist)
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	return v
}

// Load extracts the typed configuration from v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config

	method, err := models.ParseResampleMethod(v.GetString(KeyMethod))
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString(KeyLogLevel)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", v.GetString(KeyLogLevel), err)
	}

	cfg.Resample = ResampleConfig{
		Separator:        v.GetString(KeySeparator),
		Ignore:           v.GetInt(KeyIgnore),
		WavelengthColumn: v.GetInt(KeyWvCol),
		ResponseColumn:   v.GetInt(KeyRCol),
		Sample:           v.GetFloat64(KeySample),
		Method:           method,
		Workers:          v.GetInt(KeyWorkers),
	}
	cfg.Log.Level = level
	cfg.Database.URL = v.GetString(KeyDatabase)
	cfg.Server.Port = v.GetString(KeyPort)
	cfg.Server.Env = v.GetString("ENVIRONMENT")
	cfg.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	cfg.AWS.Region = v.GetString("AWS_REGION")
	cfg.AWS.AccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	cfg.AWS.SecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	cfg.AWS.S3Bucket = v.GetString(KeyS3Bucket)
	cfg.AWS.S3Endpoint = v.GetString(KeyS3Endpoint)

	if cfg.Resample.Ignore < 0 {
		return nil, fmt.Errorf("ignore must not be negative, got %d", cfg.Resample.Ignore)
	}

	log.Debug().
		Str("method", string(cfg.Resample.Method)).
		Float64("sample", cfg.Resample.Sample).
		Bool("object_storage", cfg.AWS.S3Bucket != "").
		Bool("database", cfg.Database.URL != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
