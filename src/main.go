package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memo-notes/src/config"
	"memo-notes/src/database"
	"memo-notes/src/infrastructure/repository"
	"memo-notes/src/infrastructure/store"
	"memo-notes/src/interface/handler"
	"memo-notes/src/logger"
	"memo-notes/src/metrics"
	"memo-notes/src/middleware"
	"memo-notes/src/routes"
	"memo-notes/src/storage"
	"memo-notes/src/usecase"
	"memo-notes/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const version = "1.0"

func main() {
	// 設定を読み込み
	loadedEnv := config.LoadDotEnv()
	cfg := config.LoadConfig()

	// ロガーを初期化
	if err := logger.InitLogger(logger.Options{
		Level:     cfg.Log.Level,
		Directory: cfg.Log.Directory,
	}); err != nil {
		panic(fmt.Sprintf("ロガーの初期化に失敗: %v", err))
	}
	defer logger.CloseLogger()

	logger.WithFields(logrus.Fields{
		"env_files":    loadedEnv,
		"store_driver": cfg.Store.Driver,
	}).Info("アプリケーションを開始しています")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("ストレージバックエンドの初期化に失敗")
	}
	defer closeBackend()

	seed := store.DefaultSeed()
	if cfg.Store.SeedFile != "" {
		seed, err = store.LoadSeedFile(cfg.Store.SeedFile)
		if err != nil {
			logger.Log.WithError(err).Fatal("シードファイルの読み込みに失敗")
		}
	}

	recordStore := store.New(backend, logger.Log, store.Options{
		Seed:             seed,
		FailOnWriteError: cfg.Store.FailOnWriteError,
		Metrics:          collector,
	})
	if err := recordStore.Load(ctx); err != nil {
		if cfg.Store.Strict {
			logger.Log.WithError(err).Fatal("データの読み込みに失敗")
		}
		logger.Log.WithError(err).Warn("一部のデータを既定値で初期化しました")
	}

	// 依存関係を組み立て
	v := validator.NewCustomValidator()
	memoUsecase := usecase.NewMemoUsecase(repository.NewMemoRepository(recordStore, logger.Log))
	categoryUsecase := usecase.NewCategoryUsecase(repository.NewCategoryRepository(recordStore, logger.Log))
	tagUsecase := usecase.NewTagUsecase(repository.NewTagRepository(recordStore, logger.Log))

	uploader := newUploader(cfg)
	startUploads(ctx, cfg, uploader, recordStore)

	// Ginルーターを初期化
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())

	// グローバルmiddlewareを適用
	r.Use(middleware.LoggerMiddleware("/health", "/metrics"))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: cfg.Server.CORSOrigins,
		MaxAge:         cfg.Server.CORSMaxAge,
	}))
	r.Use(middleware.MetricsMiddleware(collector))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))
	}

	checks := map[string]routes.HealthCheck{
		"store": recordStore.LastPersistError,
	}
	if db, ok := backend.(*database.Backend); ok {
		checks["database"] = db.Health
	}
	routes.SetupPublicRoutes(r, version, checks)
	r.GET("/metrics", gin.WrapH(collector.Handler()))
	routes.SetupRoutes(r, routes.Handlers{
		Memo:     handler.NewMemoHandler(memoUsecase, v, logger.Log),
		Category: handler.NewCategoryHandler(categoryUsecase, v, logger.Log),
		Tag:      handler.NewTagHandler(tagUsecase, v, logger.Log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// サーバーを起動
	go func() {
		logger.Log.WithField("port", cfg.Server.Port).Info("サーバーを開始します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("サーバーの起動に失敗")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("シャットダウンシグナルを受信しました")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("グレースフルシャットダウンに失敗")
	}

	finalUploads(shutdownCtx, cfg, uploader, recordStore)
}

// openBackend selects the record store backend from STORE_DRIVER
func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, func(), error) {
	switch cfg.Store.Driver {
	case "file", "":
		logger.WithField("data_dir", cfg.Store.DataDir).Info("ファイルバックエンドを使用します")
		return store.NewFileBackend(cfg.Store.DataDir), func() {}, nil
	case "postgres":
		db, err := database.NewDB(ctx, &database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnectTimeout:  cfg.Database.ConnectTimeout,
		}, logger.Log)
		if err != nil {
			return nil, nil, err
		}
		backend, err := database.NewBackend(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return backend, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newUploader returns nil when neither log upload nor snapshot backup is enabled
func newUploader(cfg *config.Config) *storage.Uploader {
	if !cfg.Log.UploadEnabled && !cfg.Store.BackupEnabled {
		return nil
	}

	uploader, err := storage.NewUploader(&storage.S3Config{
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		UseSSL:          cfg.S3.UseSSL,
	}, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Error("S3アップローダーの初期化に失敗")
		return nil
	}
	return uploader
}

// startUploads starts the periodic log upload and snapshot backup
func startUploads(ctx context.Context, cfg *config.Config, uploader *storage.Uploader, recordStore *store.Store) {
	if uploader == nil {
		return
	}

	if cfg.Log.UploadEnabled {
		uploader.StartPeriodic(ctx, "logs", cfg.Log.UploadInterval, func(ctx context.Context) error {
			return uploader.UploadOldLogs(ctx, cfg.Log.Directory, cfg.Log.UploadMaxAge, logger.GetCurrentLogFile())
		})
	}
	if cfg.Store.BackupEnabled {
		uploader.StartPeriodic(ctx, "snapshot", cfg.Store.BackupInterval, func(ctx context.Context) error {
			return uploader.UploadSnapshot(ctx, recordStore)
		})
	}
}

// finalUploads flushes old logs and takes a last snapshot on shutdown
func finalUploads(ctx context.Context, cfg *config.Config, uploader *storage.Uploader, recordStore *store.Store) {
	if uploader == nil {
		return
	}

	if cfg.Log.UploadEnabled {
		logger.Log.Info("最後のログアップロードを実行中...")
		if err := uploader.UploadOldLogs(ctx, cfg.Log.Directory, 0, logger.GetCurrentLogFile()); err != nil {
			logger.Log.WithError(err).Error("最後のログアップロードに失敗")
		}
	}
	if cfg.Store.BackupEnabled {
		if err := uploader.UploadSnapshot(ctx, recordStore); err != nil {
			logger.Log.WithError(err).Error("最後のスナップショットに失敗")
		}
	}
}
