package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dsstudio/internal/flagx"
	"github.com/dmitrijs2005/dsstudio/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Durations use timex.Duration, so both "90m" and integer nanoseconds parse.
// Pointer fields distinguish "absent" from an explicit false.
type JsonConfig struct {
	Env                         string         `json:"env"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	MediaRoot                   string         `json:"media_root"`
	ProfilePictureDir           string         `json:"profile_picture_dir"`
	MediaURL                    string         `json:"media_url"`
	StorageType                 string         `json:"storage_type"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ReadTimeout                 timex.Duration `json:"read_timeout"`
	WriteTimeout                timex.Duration `json:"write_timeout"`
	RunMigrations               *bool          `json:"run_migrations"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. Without the flag nothing is loaded. Only keys present in the
// file override config. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.Env, c.Env)
	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	overlay(&config.MediaRoot, c.MediaRoot)
	overlay(&config.ProfilePictureDir, c.ProfilePictureDir)
	overlay(&config.MediaURL, c.MediaURL)
	overlay(&config.StorageType, StorageType(c.StorageType))
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.ReadTimeout, c.ReadTimeout.Duration)
	overlay(&config.WriteTimeout, c.WriteTimeout.Duration)
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
