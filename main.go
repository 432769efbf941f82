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

	"tikclone/api"
	"tikclone/auth"
	"tikclone/config"
	"tikclone/notification"
	"tikclone/pkg/logging"
	"tikclone/pkg/mailer"
	"tikclone/pkg/media"
	"tikclone/pkg/password"
	"tikclone/pkg/token"
	"tikclone/social"
	"tikclone/store"
	"tikclone/users"
	"tikclone/video"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.Server.Mode == gin.ReleaseMode)
	if err := cfg.Validate(); err != nil {
		log.Error(context.Background(), "invalid configuration", "err", err)
		os.Exit(1)
	}

	// `./tikclone migrate` runs the schema migration and admin seed, then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrate(cfg, log); err != nil {
			log.Error(context.Background(), "migration failed", "err", err)
			os.Exit(1)
		}
		log.Info(context.Background(), "migration and seeding completed")
		return
	}

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "err", err)
		os.Exit(1)
	}
}

func openDB(cfg *config.Config, log logging.Logger) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if cfg.Database.AutoMigrate {
		// a partial migration is logged and tolerated
		if err := store.Migrate(ctx, db, log); err != nil {
			log.Warn(ctx, "migration incomplete", "err", err)
		}
	}
	return db, nil
}

func migrate(cfg *config.Config, log logging.Logger) error {
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := store.Migrate(ctx, db, log); err != nil {
		return err
	}
	return store.SeedAdmin(ctx, db, cfg.Admin, password.NewHasher(cfg.Auth.BcryptCost), log)
}

// newDispatcher falls back to printing mail on stdout when no SMTP host is
// set. That output carries live verification and reset links, so it is for
// development only.
func newDispatcher(cfg *config.Config, log logging.Logger) mailer.Dispatcher {
	if cfg.Mail.Host == "" {
		log.Warn(context.Background(), "SMTP_HOST not set, printing emails to stdout; links in them are live credentials, do not use in production")
		return mailer.NewConsoleDispatcher(os.Stdout)
	}
	return mailer.NewSMTPDispatcher(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.MailFrom())
}

// newUploader stores media in S3 when a bucket is configured and on local disk
// otherwise. The second value is the directory to serve under /media, if any.
func newUploader(ctx context.Context, cfg *config.Config) (media.Uploader, string, error) {
	if cfg.Media.Bucket != "" {
		u, err := media.NewS3Uploader(ctx, cfg.Media)
		return u, "", err
	}
	u, err := media.NewLocalUploader(cfg.Media.LocalDir, "/media")
	if err != nil {
		return nil, "", err
	}
	return u, u.Dir(), nil
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	if err := store.SeedAdmin(ctx, db, cfg.Admin, hasher, log); err != nil {
		log.Warn(ctx, "admin seed failed", "err", err)
	}
	st := store.New(db)

	issuer := token.NewIssuer(token.Config{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
	})

	templates, err := mailer.NewTemplates(cfg.Mail.TemplateDir, log)
	if err != nil {
		return fmt.Errorf("load mail templates: %w", err)
	}
	if err := templates.Watch(ctx); err != nil {
		log.Warn(ctx, "mail template watch disabled", "dir", cfg.Mail.TemplateDir, "err", err)
	}
	mail := mailer.NewService(newDispatcher(cfg, log), templates, cfg.Auth.EmailTokenTTL)

	uploader, mediaDir, err := newUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init media storage: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	api.SetupRoutes(r, api.Deps{
		Tokens: issuer,
		Auth: auth.NewService(st, issuer, hasher, mail, auth.Config{
			BaseURL:          cfg.Server.BaseURL,
			DefaultAvatarURL: cfg.Auth.DefaultAvatarURL,
			EmailTokenTTL:    cfg.Auth.EmailTokenTTL,
		}, log),
		Users: users.NewService(st, log),
		Videos: video.NewService(st, uploader, video.Config{
			ThumbnailMaxWidth: cfg.Media.ThumbnailMaxWidth,
			MaxVideoBytes:     cfg.Media.MaxVideoBytes,
		}, log),
		Likes:          social.NewLikes(st, log),
		Follows:        social.NewFollows(st, log),
		Comments:       social.NewComments(st, log),
		Notifications:  notification.NewService(st, log),
		DB:             st,
		Log:            log,
		MediaDir:       mediaDir,
		MaxUploadBytes: cfg.Media.MaxVideoBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}
