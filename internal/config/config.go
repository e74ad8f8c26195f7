package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPPort     string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL  string        `env:"DATABASE_URL,required"`
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`

	// Mailer selects the dispatch backend: smtp, postmark, or dev.
	Mailer      string        `env:"MAILER" envDefault:"smtp"`
	FromEmail   string        `env:"FROM_EMAIL" envDefault:"noreply@delivermail.io"`
	SendTimeout time.Duration `env:"SEND_TIMEOUT" envDefault:"10s"`

	SMTPHost string `env:"SMTP_HOST" envDefault:"smtp.ethereal.email"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@delivermail.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"ChangeMe123"`
}

func Load() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}
