// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	mode = pflag.String("mode", "all", "What to run: api, worker or all")

	validLogLevels       = []string{"debug", "info", "warn", "error", "fatal"}
	validModes           = []string{"api", "worker", "all"}
	validStorageTypes    = []string{"local", "s3", "r2"}
	validDBDrivers       = []string{"mongo", "postgres", "sqlite"}
	validSessionBackends = []string{"redis", "memory"}
	validQueueBackends   = []string{"asynq", "memory"}
	validEngines         = []string{"imaging", "ffmpeg"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	pflag.Parse()
	v.BindPFlag("app.mode", pflag.Lookup("mode"))

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	bindEnvs()
	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if err := Validate(); err != nil {
		return err
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

func bindEnvs() {
	v.BindEnv("app.log_level", "LOG_LEVEL", "APP_LOG_LEVEL")
	v.BindEnv("app.mode", "MODE")

	v.BindEnv("host.port", "PORT", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.base_dir", "BASE_DIR", "FOLDER_PATH")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.host", "DB_HOST")
	v.BindEnv("db.port", "DB_PORT")
	v.BindEnv("db.name", "DB_NAME", "DB_DATABASE")
	v.BindEnv("db.user", "DB_USER")
	v.BindEnv("db.password", "DB_PASSWORD")
	v.BindEnv("db.path", "DB_PATH")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	v.BindEnv("session.backend", "SESSION_BACKEND")
	v.BindEnv("session.ttl", "SESSION_TTL")

	v.BindEnv("queue.backend", "QUEUE_BACKEND")
	v.BindEnv("queue.workers", "QUEUE_WORKERS")
	v.BindEnv("queue.size", "QUEUE_SIZE")
	v.BindEnv("queue.max_retry", "QUEUE_MAX_RETRY")

	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")

	v.BindEnv("thumbnail.engine", "THUMBNAIL_ENGINE")
	v.BindEnv("ffmpeg.path", "FFMPEG_PATH")

	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.sender_address", "MAIL_SENDER_ADDRESS")
	v.BindEnv("mail.password", "MAIL_PASSWORD")

	v.BindEnv("aws.access_key", "AWS_ACCESS_KEY")
	v.BindEnv("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("aws.bucket", "AWS_BUCKET")
	v.BindEnv("aws.region", "AWS_REGION")

	v.BindEnv("cloudflare.account_id", "CLOUDFLARE_ACCOUNT_ID")
	v.BindEnv("cloudflare.access_key_id", "CLOUDFLARE_ACCESS_KEY_ID")
	v.BindEnv("cloudflare.secret_access_key", "CLOUDFLARE_SECRET_ACCESS_KEY")
	v.BindEnv("cloudflare.bucket", "CLOUDFLARE_BUCKET")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")
	v.BindEnv("cache.stats_ttl", "CACHE_STATS_TTL")
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.mode", "all")

	v.SetDefault("host.port", 5000)
	v.SetDefault("host.cors", "*")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_dir", filepath.Join(os.TempDir(), "files_manager"))

	v.SetDefault("db.driver", "mongo")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.name", "files_manager")
	v.SetDefault("db.path", "database.db")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("session.backend", "redis")
	v.SetDefault("session.ttl", "24h")

	v.SetDefault("queue.backend", "asynq")
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.size", 100)
	v.SetDefault("queue.max_retry", 3)

	v.SetDefault("upload.max_size", 50)

	v.SetDefault("thumbnail.engine", "imaging")
	v.SetDefault("ffmpeg.path", "ffmpeg")

	v.SetDefault("mail.port", 587)

	v.SetDefault("security.rate_limit", 5)
	v.SetDefault("cache.stats_ttl", 0)
}

// Validate checks the loaded values
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validModes, v.GetString("app.mode")) {
		return errors.New("invalid mode provided, use api, worker or all")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetDuration("session.ttl") <= 0 {
		return errors.New("session.ttl must be a positive duration")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid db driver provided")
	}

	if !slices.Contains(validSessionBackends, v.GetString("session.backend")) {
		return errors.New("invalid session backend provided")
	}

	if !slices.Contains(validQueueBackends, v.GetString("queue.backend")) {
		return errors.New("invalid queue backend provided")
	}

	if v.GetString("queue.backend") == "memory" && v.GetString("app.mode") != "all" {
		return errors.New("the memory queue only works with mode all")
	}

	if v.GetInt("queue.workers") <= 0 {
		return errors.New("queue.workers must be bigger than 0")
	}

	if v.GetInt("queue.max_retry") < 0 {
		return errors.New("queue.max_retry can't be negative")
	}

	if !slices.Contains(validEngines, v.GetString("thumbnail.engine")) {
		return errors.New("invalid thumbnail engine provided")
	}

	switch v.GetString("storage.type") {
	case "local":
		if v.GetString("storage.base_dir") == "" {
			return errors.New("storage base dir can't be empty")
		}
	case "s3":
		if v.GetString("aws.access_key") == "" {
			return errors.New("aws access key can't be empty")
		}
		if v.GetString("aws.secret_access_key") == "" {
			return errors.New("aws secret access key can't be empty")
		}
		if v.GetString("aws.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("aws.region") == "" {
			return errors.New("aws region can't be empty")
		}
	case "r2":
		if v.GetString("cloudflare.account_id") == "" {
			return errors.New("account id can't be empty")
		}
		if v.GetString("cloudflare.access_key_id") == "" {
			return errors.New("account access id can't be empty")
		}
		if v.GetString("cloudflare.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("cloudflare.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
	default:
		return errors.New("invalid storage type provided")
	}

	return nil
}
