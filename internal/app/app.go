// Package app wires configuration, storage, services and HTTP routes into
// the running server process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/campusfront/campusfront/internal/cache"
	"github.com/campusfront/campusfront/internal/config"
	"github.com/campusfront/campusfront/internal/db"
	adminapi "github.com/campusfront/campusfront/internal/http/api/admin"
	publicapi "github.com/campusfront/campusfront/internal/http/api/public"
	"github.com/campusfront/campusfront/internal/invitation"
	"github.com/campusfront/campusfront/internal/logging"
	"github.com/campusfront/campusfront/internal/mail"
	"github.com/campusfront/campusfront/internal/messaging"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/security"
	"github.com/campusfront/campusfront/internal/settings"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the platform server and blocks until ctx is cancelled.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Logging)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errBootstrap := bootstrapAdmin(ctx, conn, cfg.Bootstrap); errBootstrap != nil {
		return errBootstrap
	}
	if errRefresh := settings.Refresh(ctx, conn); errRefresh != nil {
		return fmt.Errorf("load settings: %w", errRefresh)
	}

	redisCache := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	messenger := messaging.NewService(conn, newSender(cfg.Email))
	invites := invitation.NewService(conn)

	engine := newEngine()
	adminapi.RegisterAdminRoutes(engine, adminapi.Deps{
		DB:        conn,
		JWT:       cfg.JWT,
		Cache:     redisCache,
		Messenger: messenger,
		Invites:   invites,
		Uploads:   cfg.Uploads,
	})
	publicapi.RegisterPublicRoutes(engine, publicapi.Deps{
		DB:        conn,
		Cache:     redisCache,
		Messenger: messenger,
		Invites:   invites,
	})
	engine.Static("/uploads", cfg.Uploads.Dir)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	messaging.NewAutomator(messenger).Start(ctx)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// newEngine builds the gin engine with recovery and request logging.
func newEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogMiddleware())
	return engine
}

// requestLogMiddleware logs each request with method, path, status and
// duration.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request")
	}
}

// newSender selects the outbound email backend from config.
func newSender(cfg config.EmailConfig) mail.Sender {
	if cfg.Provider == "sendgrid" {
		sender, errNew := mail.NewSendGridSender(cfg.SendGridKey, cfg.FromName, cfg.FromEmail)
		if errNew != nil {
			log.Warnf("sendgrid unavailable, falling back to console sender: %v", errNew)
			return mail.NewConsoleSender()
		}
		return sender
	}
	return mail.NewConsoleSender()
}

// bootstrapAdmin seeds the first Level 1 admin when the admins table is
// empty. Without it a fresh deployment has no way to sign in.
func bootstrapAdmin(ctx context.Context, conn *gorm.DB, cfg config.BootstrapConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if errCount := conn.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		return errCount
	}
	if count > 0 {
		return nil
	}

	hash, errHash := security.HashPassword(cfg.AdminPassword)
	if errHash != nil {
		return errHash
	}
	admin := models.Admin{
		Email:    cfg.AdminEmail,
		Name:     "Platform Admin",
		Password: hash,
		Active:   true,
		Level:    models.AdminLevelFull,
	}
	if errCreate := conn.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		return errCreate
	}
	log.Infof("bootstrapped level 1 admin %s", cfg.AdminEmail)
	return nil
}
