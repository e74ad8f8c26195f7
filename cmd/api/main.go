package main

import (
	"errors"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"delivermail/internal/auth"
	"delivermail/internal/config"
	"delivermail/internal/httpserver"
	"delivermail/internal/logger"
	"delivermail/internal/mailer"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		// config errors predate the logger
		panic(err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	st := store.NewGorm(db)
	if err := st.AutoMigrate(); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seedDefaultAdmin(st, cfg, lg)

	m := buildMailer(cfg, lg)
	router := httpserver.NewRouter(st, m, httpserver.Options{
		FromEmail:   cfg.FromEmail,
		SendTimeout: cfg.SendTimeout,
	}, lg)

	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

func buildMailer(cfg config.Config, lg *zap.SugaredLogger) mailer.Mailer {
	switch cfg.Mailer {
	case "postmark":
		return mailer.NewPostmark(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	case "dev":
		return mailer.NewDev()
	default:
		return mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}
}

func seedDefaultAdmin(st store.Storage, cfg config.Config, lg *zap.SugaredLogger) {
	if _, err := st.UserByEmail(cfg.AdminEmail); err == nil {
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		lg.Warnw("admin seed lookup failed", "error", err)
		return
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		lg.Warnw("admin seed hash failed", "error", err)
		return
	}
	u := models.User{
		Username:     "admin",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		Plan:         models.PlanFree,
		IsActive:     true,
	}
	if err := st.CreateUser(&u); err != nil {
		lg.Warnw("admin seed failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "email", cfg.AdminEmail)
}
