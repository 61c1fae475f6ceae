package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"seungpyo.lee/PersonalBlog/pkg/config"
)

// BlogConfig extends GlobalConfig with blog specific settings.
type BlogConfig struct {
	config.GlobalConfig
	SecretKey string

	DBDriver          string // postgres or memory
	PostgresDSN       string
	PostgreDBURL      string
	PostgreDBPort     string
	PostgreDBUser     string
	PostgreDBPassword string
	PostgreDBName     string

	RedisDBURL      string
	RedisDBPort     string
	RedisDBPassword string
	RedisMaxRetries int
	RedisPoolSize   int

	ResetTokenTTL     time.Duration
	ResetSingleUse    bool
	ResetRequiresAuth bool
	ResetURLBase      string

	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailSender   string
	MailWorkers  int

	PictureBackend   string // local, azblob or s3
	PictureDir       string
	PictureURLPrefix string
	PictureMaxSize   int

	AzureStorageConnectionString string
	BlobContainerName            string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	MaxBodyBytes int64

	LogLevel string
	LogDev   bool
	LogFile  string
}

func LoadBlogConfig() *BlogConfig {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}
	return &BlogConfig{
		GlobalConfig: *config.LoadGlobalConfig(),
		SecretKey:    config.GetEnv("SECRET_KEY"),

		DBDriver:          config.GetEnvDefault("DB_DRIVER", "postgres"),
		PostgresDSN:       config.GetEnvDefault("POSTGRES_DSN", ""),
		PostgreDBURL:      config.GetEnvDefault("POSTGRE_DB_URL", "localhost"),
		PostgreDBPort:     config.GetEnvDefault("POSTGRE_DB_PORT", "5432"),
		PostgreDBUser:     config.GetEnvDefault("POSTGRE_DB_USER", "postgres"),
		PostgreDBPassword: config.GetEnvDefault("POSTGRE_DB_PASSWORD", ""),
		PostgreDBName:     config.GetEnvDefault("POSTGRE_DB_NAME", "blog"),

		RedisDBURL:      config.GetEnvDefault("REDIS_DB_URL", ""),
		RedisDBPort:     config.GetEnvDefault("REDIS_DB_PORT", "6379"),
		RedisDBPassword: config.GetEnvDefault("REDIS_DB_PASSWORD", ""),
		RedisMaxRetries: 3,
		RedisPoolSize:   10,

		ResetTokenTTL:     time.Duration(config.GetEnvInt("RESET_TOKEN_TTL_SECONDS", 1800)) * time.Second,
		ResetSingleUse:    config.GetEnvBool("RESET_SINGLE_USE", false),
		ResetRequiresAuth: config.GetEnvBool("RESET_REQUIRES_AUTH", false),
		ResetURLBase:      config.GetEnvDefault("RESET_URL_BASE", "http://localhost:8080/reset_password"),

		MailServer:   config.GetEnvDefault("MAIL_SERVER", ""),
		MailPort:     config.GetEnvInt("MAIL_PORT", 587),
		MailUsername: config.GetEnvDefault("MAIL_USERNAME", ""),
		MailPassword: config.GetEnvDefault("MAIL_PASSWORD", ""),
		MailSender:   config.GetEnvDefault("MAIL_SENDER", ""),
		MailWorkers:  config.GetEnvInt("MAIL_WORKERS", 2),

		PictureBackend:   config.GetEnvDefault("PICTURE_BACKEND", "local"),
		PictureDir:       config.GetEnvDefault("PICTURE_DIR", "static/profile_pics"),
		PictureURLPrefix: config.GetEnvDefault("PICTURE_URL_PREFIX", "/static/profile_pics"),
		PictureMaxSize:   125,

		AzureStorageConnectionString: config.GetEnvDefault("AZURE_STORAGE_CONNECTION_STRING", ""),
		BlobContainerName:            config.GetEnvDefault("BLOB_CONTAINER_NAME", "profile-pics"),

		S3Endpoint:  config.GetEnvDefault("S3_ENDPOINT", ""),
		S3Region:    config.GetEnvDefault("S3_REGION", "us-east-1"),
		S3Bucket:    config.GetEnvDefault("S3_BUCKET", "profile-pics"),
		S3AccessKey: config.GetEnvDefault("S3_ACCESS_KEY", ""),
		S3SecretKey: config.GetEnvDefault("S3_SECRET_KEY", ""),
		S3PublicURL: config.GetEnvDefault("S3_PUBLIC_URL", ""),

		MaxBodyBytes: int64(config.GetEnvInt("MAX_BODY_BYTES", 8<<20)),

		LogLevel: config.GetEnvDefault("LOG_LEVEL", "info"),
		LogDev:   config.GetEnvBool("LOG_DEV", false),
		LogFile:  config.GetEnvDefault("LOG_FILE", ""),
	}
}

// DSN returns POSTGRES_DSN when set, otherwise one assembled from the POSTGRE_DB_* parts.
func (c *BlogConfig) DSN() string {
	if c.PostgresDSN != "" {
		return c.PostgresDSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgreDBUser, c.PostgreDBPassword),
		Host:     c.PostgreDBURL + ":" + c.PostgreDBPort,
		Path:     c.PostgreDBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *BlogConfig) RedisAddr() string {
	if c.RedisDBURL == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.RedisDBURL, c.RedisDBPort)
}

// Validate reports settings that cannot work together.
func (c *BlogConfig) Validate() error {
	switch c.DBDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	switch c.PictureBackend {
	case "local":
	case "azblob":
		if c.AzureStorageConnectionString == "" {
			return fmt.Errorf("PICTURE_BACKEND=azblob requires AZURE_STORAGE_CONNECTION_STRING")
		}
	case "s3":
		if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("PICTURE_BACKEND=s3 requires S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown PICTURE_BACKEND %q", c.PictureBackend)
	}
	if c.ResetSingleUse && c.DBDriver == "postgres" && c.RedisAddr() == "" {
		log.Println("RESET_SINGLE_USE without Redis keeps used tokens in process memory only")
	}
	return nil
}
