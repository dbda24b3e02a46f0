package main

import (
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"learnhub_backend/internal/app/router"
	"learnhub_backend/internal/config"
	authadapters "learnhub_backend/internal/feature/auth/adapters"
	authhandler "learnhub_backend/internal/feature/auth/transport/handler"
	authusecase "learnhub_backend/internal/feature/auth/usecase"
	userhandler "learnhub_backend/internal/feature/user/transport/handler"
	userusecase "learnhub_backend/internal/feature/user/usecase"
	"learnhub_backend/internal/platform/cache"
	infradb "learnhub_backend/internal/platform/db"
	jwtmw "learnhub_backend/internal/platform/jwt"
	"learnhub_backend/internal/platform/mail"
	infraredis "learnhub_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	// db
	db := infradb.OpenDB(cfg)

	// Redis (optional; the listing cache degrades to pass-through)
	var rdb *redisv9.Client
	if cfg.RedisAddr != "" {
		if tmp, err := infraredis.NewRedisClient(cfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	cachedLister := cache.NewCachingUserLister(rdb, 0, userRepo, "users")

	// Token manager
	tokens := jwtmw.NewManager(cfg.JWTSecret, cfg.SessionTTL())

	// Mail transport: real SMTP in production, log transport otherwise.
	var mailer authusecase.Mailer = mail.LogMailer{}
	if cfg.IsProduction() {
		mailer = mail.NewSMTPMailer(cfg)
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, mailer, cfg.AppBaseURL)
	userUC := userusecase.NewUserUsecase(userRepo, cachedLister)

	// Handler
	cookie := authhandler.CookieConfig{MaxAgeDays: cfg.JWTExpiresDays, Secure: cfg.IsProduction()}
	authH := authhandler.NewAuthHandler(authUC, cookie)
	userH := userhandler.NewUserHandler(userUC, cfg.UploadDir)

	r := router.NewRouter(authH, userH, tokens, userRepo, cfg.UploadDir)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
