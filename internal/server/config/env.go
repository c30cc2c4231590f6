package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads an optional dotenv file and overlays environment variables
// onto config. The file named by -env must exist; without the flag a ./.env
// is loaded if present. Variables already set in the process environment win
// over the file, and empty variables are treated as unset.
//
// Recognized variables:
//
//	ENV, HTTP_ADDR, GRPC_ADDR, DATABASE_URL, SECRET_KEY,
//	ACCESS_TOKEN_EXPIRE_MINUTES, MEDIA_ROOT, PROFILE_PICTURE_DIR, MEDIA_URL,
//	STORAGE_TYPE, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_S3_BUCKET,
//	AWS_REGION, S3_BASE_ENDPOINT, RUN_MIGRATIONS
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	setString(&config.Env, "ENV")
	setString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_URL")
	setString(&config.SecretKey, "SECRET_KEY")
	setString(&config.MediaRoot, "MEDIA_ROOT")
	setString(&config.ProfilePictureDir, "PROFILE_PICTURE_DIR")
	setString(&config.MediaURL, "MEDIA_URL")
	setString(&config.S3RootUser, "AWS_ACCESS_KEY_ID")
	setString(&config.S3RootPassword, "AWS_SECRET_ACCESS_KEY")
	setString(&config.S3Bucket, "AWS_S3_BUCKET")
	setString(&config.S3Region, "AWS_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")

	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		config.StorageType = StorageType(v)
	}
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.RunMigrations = b
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
