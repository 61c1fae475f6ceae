package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"seungpyo.lee/PersonalBlog/internal/adapter"
	"seungpyo.lee/PersonalBlog/internal/config"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/handler"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/internal/repository"
	"seungpyo.lee/PersonalBlog/internal/service"
	"seungpyo.lee/PersonalBlog/internal/token"
	"seungpyo.lee/PersonalBlog/internal/worker"
	"seungpyo.lee/PersonalBlog/pkg/jwt"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

func main() {
	conf := config.LoadBlogConfig()
	if err := conf.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logg, err := logger.New(logger.Config{Level: conf.LogLevel, Dev: conf.LogDev, File: conf.LogFile})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if !conf.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	ctx := context.Background()

	users, posts := openRepositories(conf, logg)

	var redisClient *redis.Client
	if addr := conf.RedisAddr(); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:       addr,
			Password:   conf.RedisDBPassword,
			DB:         0, // use default DB
			MaxRetries: conf.RedisMaxRetries,
			PoolSize:   conf.RedisPoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logg.Fatal("failed to connect to redis", "addr", addr, "error", err)
		}
		defer redisClient.Close()
	}

	var revocations jwt.RevocationStore
	var usedTokens domain.UsedTokenStore
	if redisClient != nil {
		revocations = jwt.NewRedisRevocationStore(redisClient)
		usedTokens = repository.NewRedisUsedTokenStore(redisClient)
	} else {
		logg.Warn("redis not configured, revoked and used tokens are kept in process memory")
		revocations = jwt.NewMemoryRevocationStore()
		usedTokens = repository.NewMemoryUsedTokenStore()
	}
	tokenManager := jwt.NewTokenManager(conf.SecretKey, revocations)

	store, static := openPictureStore(ctx, conf, logg)
	pictures := adapter.NewProfilePictures(store, conf.PictureMaxSize, conf.PictureMaxSize)

	var mailer adapter.MailDispatcher
	if conf.MailServer != "" {
		mailer = adapter.NewSMTPMailDispatcher(adapter.SMTPConfig{
			Host:     conf.MailServer,
			Port:     conf.MailPort,
			Username: conf.MailUsername,
			Password: conf.MailPassword,
			Sender:   conf.MailSender,
		})
	} else {
		logg.Warn("MAIL_SERVER not set, reset mails are only logged")
		mailer = adapter.NewLogMailDispatcher(logg)
	}
	pool := worker.NewPool(conf.MailWorkers, 64, logg.With("component", "worker"))

	svc := handler.Services{
		Auth:    service.NewAuthService(users, tokenManager, conf.GlobalConfig, logg.With("component", "auth")),
		Account: service.NewAccountService(users, pictures, logg.With("component", "account")),
		Reset: service.NewResetService(users, token.NewCodec(conf.SecretKey, nil), mailer, pool, usedTokens, service.ResetConfig{
			TTL:         conf.ResetTokenTTL,
			URLBase:     conf.ResetURLBase,
			SingleUse:   conf.ResetSingleUse,
			RequireAuth: conf.ResetRequiresAuth,
		}, logg.With("component", "reset")),
		Posts: service.NewPostService(posts, users, logg.With("component", "posts")),
	}
	r := handler.NewRouter(svc, tokenManager, logg, handler.Options{MaxBodyBytes: conf.MaxBodyBytes, Static: static})

	srv := &http.Server{
		Addr:              ":" + conf.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logg.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server shutdown failed", "error", err)
	}
	pool.Stop()
}

func openRepositories(conf *config.BlogConfig, logg *logger.Logger) (domain.UserRepository, domain.PostRepository) {
	if conf.DBDriver == "memory" {
		logg.Warn("DB_DRIVER=memory, data is lost on restart")
		users := repository.NewMemoryUserRepository()
		return users, repository.NewMemoryPostRepository(users)
	}

	db, err := gorm.Open(postgres.Open(conf.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logg.Fatal("failed to connect to database", "error", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		logg.Fatal("failed to migrate database", "error", err)
	}
	return repository.NewUserRepository(db), repository.NewPostRepository(db)
}

func openPictureStore(ctx context.Context, conf *config.BlogConfig, logg *logger.Logger) (adapter.PictureStore, []handler.StaticDir) {
	var (
		store adapter.PictureStore
		err   error
	)
	switch conf.PictureBackend {
	case "azblob":
		store, err = adapter.NewAzureBlobPictureStore(ctx, conf.AzureStorageConnectionString, conf.BlobContainerName)
	case "s3":
		store, err = adapter.NewS3PictureStore(ctx, adapter.S3Config{
			Endpoint:  conf.S3Endpoint,
			Region:    conf.S3Region,
			Bucket:    conf.S3Bucket,
			AccessKey: conf.S3AccessKey,
			SecretKey: conf.S3SecretKey,
			PublicURL: conf.S3PublicURL,
		})
	default:
		store, err = adapter.NewLocalPictureStore(conf.PictureDir, conf.PictureURLPrefix)
		if err == nil {
			return store, []handler.StaticDir{{URLPrefix: conf.PictureURLPrefix, Dir: conf.PictureDir}}
		}
	}
	if err != nil {
		logg.Fatal("failed to open picture store", "backend", conf.PictureBackend, "error", err)
	}
	return store, nil
}
