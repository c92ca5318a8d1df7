package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server   ServerConfig        `json:"server"`
	Upload   UploadConfig        `json:"upload"`
	Database Database            `json:"database"`
	Redis    RedisConfig         `json:"redis"`
	R2       R2Config            `json:"r2"`
	Cleanup  CleanupWorkerConfig `json:"cleanup_worker"`
	Sentry   SentryConfig        `json:"sentry"`
	Site     SiteConfig          `json:"site"`
	LogMode  string              `json:"log_mode"` // "dev" or "prod"
}

type ServerConfig struct {
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

type UploadConfig struct {
	MaxRequestBodyMB     int64 `json:"max_request_body"`
	MaxMultipartMemoryMB int64 `json:"max_multipart_memory"`
	MaxFileSizeMB        int64 `json:"max_file_size"`
}

// MaxFileSizeBytes applies the 10 MiB default when unset.
func (u UploadConfig) MaxFileSizeBytes() int64 {
	if u.MaxFileSizeMB <= 0 {
		return 10 << 20
	}
	return u.MaxFileSizeMB << 20
}

type Database struct {
	DSN string `json:"dsn"`
}

type RedisConfig struct {
	Password            string        `json:"password"`
	DatabaseID          int           `json:"database_id"`
	HealthCheckInterval time.Duration `json:"health_check_interval"`
	DialTimeout         time.Duration `json:"dial_timeout"`
	ReadTimeout         time.Duration `json:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout"`
	PoolSize            int           `json:"pool_size"`
	Nodes               []RedisNode   `json:"nodes"`
}

type RedisNode struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (n RedisNode) Addr() string { return fmt.Sprintf("%s:%d", n.Host, n.Port) }

type R2Config struct {
	AccountID     string `json:"account_id"`
	BucketName    string `json:"bucket_name"`
	AccessKeyID   string `json:"access_key_id"`
	SecretKey     string `json:"secret_key"`
	Endpoint      string `json:"endpoint"`
	PublicBaseURL string `json:"public_base_url"` // public bucket domain, no trailing slash
	KeyPrefix     string `json:"key_prefix"`      // object key prefix, default "blog"
}

// CleanupWorkerConfig drives the redis-streams consumer that removes
// size-variant blobs after an asset deletion.
type CleanupWorkerConfig struct {
	Stream       string        `json:"stream"`        // redis stream name
	Group        string        `json:"group"`         // consumer group name
	Workers      int           `json:"workers"`       // number of concurrent goroutines
	MaxAttempts  int           `json:"max_attempts"`  // max retries before DLQ
	MaxLen       int64         `json:"max_len"`       // stream max length before trim
	BackoffBase  time.Duration `json:"backoff_base"`  // base retry delay
	BlockTimeout time.Duration `json:"block_timeout"` // XREADGROUP block timeout
	Consumer     string        `json:"consumer"`
}

type SentryConfig struct {
	SentryDSN   string `json:"sentry_dsn"`
	Environment string `json:"environment"`
}

// SiteConfig feeds the build-time OG generator.
type SiteConfig struct {
	BaseURL        string `json:"base_url"`         // e.g. https://kennedynespot.com
	DistDir        string `json:"dist_dir"`         // built SPA output, default "dist"
	DefaultOGImage string `json:"default_og_image"` // absolute or site-relative
}
