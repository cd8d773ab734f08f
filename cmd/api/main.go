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

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"citydrive-motors/internal/core/auth"
	"citydrive-motors/internal/core/cache"
	"citydrive-motors/internal/core/config"
	"citydrive-motors/internal/core/database"
	"citydrive-motors/internal/core/logger"
	"citydrive-motors/internal/core/server"
	"citydrive-motors/internal/domain"
	"citydrive-motors/internal/repo"
	"citydrive-motors/internal/service"
	"citydrive-motors/internal/storage"
	"citydrive-motors/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Car{}, &domain.Remark{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var feedCache *cache.Cache
	if cfg.Redis.Addr != "" {
		feedCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("feed cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	store, err := storage.NewDiskStore(cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	if err != nil {
		log.Fatal("upload store", zap.Error(err))
	}

	users := repo.NewUserRepo(db)
	cars := repo.NewCarRepo(db)
	remarks := repo.NewRemarkRepo(db)

	feedTTL := time.Duration(cfg.Redis.FeedTTLSec) * time.Second
	r := router.NewAPIEngine(router.Deps{
		Log:      log,
		JWTer:    jwter,
		Auth:     service.NewAuthService(users, jwter, log),
		Cars:     service.NewCarService(cars, feedCache, feedTTL, log),
		Remarks:  service.NewRemarkService(remarks, cars, users, log),
		Store:    store,
		MaxFiles: cfg.Upload.MaxFiles,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
