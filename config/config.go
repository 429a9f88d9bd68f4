package config

import (
	"strings"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Backend selection modes.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
	BackendAuto   = "auto"
)

const (
	DefaultDBPath    = "data/stock.db"
	DefaultRemoteKey = "stock/stock.db"
)

type Config struct {
	Log     Logger  `mapstructure:"logger"`
	Storage Storage `mapstructure:"storage"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Storage struct {
	Backend       string `mapstructure:"backend"`
	DBPath        string `mapstructure:"db_path"`
	DBLogLevel    string `mapstructure:"db_log_level"`
	RetentionDays int    `mapstructure:"retention_days"`
	Remote        Remote `mapstructure:"remote"`
}

// Remote holds the S3-compatible object store parameters. The four
// validate:"required" fields are what the auto mode checks before it
// will pick the remote backend.
type Remote struct {
	Bucket          string `mapstructure:"bucket" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required"`
	Endpoint        string `mapstructure:"endpoint" validate:"required"`
	Region          string `mapstructure:"region"`
	Key             string `mapstructure:"key"`
	TempDir         string `mapstructure:"temp_dir"`
}

// Complete reports whether bucket, access key, secret key and endpoint are
// all resolvable. Incomplete remote configuration is not an error, it just
// rules the remote backend out.
func (r Remote) Complete() bool {
	return goValidator.New().Struct(r) == nil
}

// ObjectKey returns the remote object key, defaulted.
func (r Remote) ObjectKey() string {
	if r.Key == "" {
		return DefaultRemoteKey
	}
	return r.Key
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("storage.backend", BackendLocal)
	v.SetDefault("storage.db_path", DefaultDBPath)
	v.SetDefault("storage.db_log_level", "Warn")
	v.SetDefault("storage.retention_days", 0)
	v.SetDefault("storage.remote.key", DefaultRemoteKey)

	// Remote credentials come from the environment in CI runs.
	_ = v.BindEnv("storage.backend", "STORAGE_BACKEND")
	_ = v.BindEnv("storage.remote.bucket", "S3_BUCKET_NAME")
	_ = v.BindEnv("storage.remote.access_key_id", "S3_ACCESS_KEY_ID")
	_ = v.BindEnv("storage.remote.secret_access_key", "S3_SECRET_ACCESS_KEY")
	_ = v.BindEnv("storage.remote.endpoint", "S3_ENDPOINT_URL")
	_ = v.BindEnv("storage.remote.region", "S3_REGION")
	_ = v.BindEnv("storage.remote.key", "S3_REMOTE_DB_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
