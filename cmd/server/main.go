package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-auth-service/internal/audit"
	auditrepo "user-auth-service/internal/audit/repository"
	"user-auth-service/internal/config"
	"user-auth-service/internal/db"
	identityservice "user-auth-service/internal/identity/service"
	menurepo "user-auth-service/internal/menu/repository"
	menuservice "user-auth-service/internal/menu/service"
	"user-auth-service/internal/policy/engine"
	"user-auth-service/internal/security"
	"user-auth-service/internal/server"
	"user-auth-service/internal/server/middleware"
	"user-auth-service/internal/session"
	otelsetup "user-auth-service/internal/telemetry/otel"
	termsrepo "user-auth-service/internal/terms/repository"
	termsservice "user-auth-service/internal/terms/service"
	userrepo "user-auth-service/internal/user/repository"
)

const serviceName = "user-auth-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTAccessSecret == "" {
		log.Fatal("JWT_ACCESS_SECRET is not set; refusing to serve with unsigned tokens")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	codec, err := security.NewTokenCodec(cfg.JWTAccessSecret, cfg.RefreshSecret(), cfg.JWTIssuer, cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	var sessions session.Store
	var redisStore *session.RedisStore
	if cfg.RedisAddr != "" {
		client := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		redisStore = session.NewRedisStore(client)
		if err := redisStore.Ping(ctx); err != nil {
			log.Fatalf("redis: %v", err)
		}
		sessions = redisStore
	} else {
		logger.Warn("REDIS_ADDR not set; using in-memory session store (sessions do not survive restarts)")
		sessions = session.NewMemoryStore()
	}

	authz, err := engine.NewOPAEvaluator()
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	users := userrepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(audits, func(ctx context.Context) string {
		ip, ok := middleware.GetClientIP(ctx)
		if !ok || ip == "" {
			return "unknown"
		}
		return ip
	})

	authSvc := identityservice.NewAuthService(users, sessions, security.NewHasher(cfg.BcryptCost), codec, auditLogger)
	termsSvc := termsservice.NewTermsService(termsrepo.NewPostgresRepository(conn), users)
	menuSvc := menuservice.NewMenuService(menurepo.NewPostgresRepository(conn))

	router := server.NewRouter(server.Services{
		Auth:      authSvc,
		Terms:     termsSvc,
		Menus:     menuSvc,
		Codec:     codec,
		Sessions:  sessions,
		Users:     users,
		Authz:     authz,
		AuditLogs: audits,
		Logger:    logger,
		Health: func(ctx context.Context) error {
			if err := conn.PingContext(ctx); err != nil {
				return err
			}
			if redisStore != nil {
				return redisStore.Ping(ctx)
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("http server stopped")
}
