package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/tendant/simple-recover/pkg/notification"
	"github.com/tendant/simple-recover/pkg/recovery"
	"github.com/tendant/simple-recover/pkg/recovery/api"
)

type RecoverDbConfig struct {
	Host     string `env:"RECOVER_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"RECOVER_PG_PORT" env-default:"5432"`
	Database string `env:"RECOVER_PG_DATABASE" env-default:"recover_db"`
	User     string `env:"RECOVER_PG_USER" env-default:"recover"`
	Password string `env:"RECOVER_PG_PASSWORD" env-default:"pwd"`
}

func (d RecoverDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type SmtpConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"1025"`
	TLS      bool   `env:"SMTP_TLS" env-default:"false"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" env-default:"noreply@example.com"`
}

type RecoveryConfig struct {
	BaseUrl           string `env:"RECOVERY_BASE_URL" env-default:"http://localhost:4000"`
	KeyTTLHours       int    `env:"RECOVERY_KEY_TTL_HOURS" env-default:"24"`
	RequestsPerMinute int    `env:"RECOVERY_REQUESTS_PER_MINUTE" env-default:"10"`
}

type Config struct {
	RecoverDbConfig RecoverDbConfig
	AppConfig       app.AppConfig
	SmtpConfig      SmtpConfig
	RecoveryConfig  RecoveryConfig
}

func main() {
	_ = godotenv.Load()

	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := config.RecoverDbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	repo, err := recovery.NewAccountRepository("postgres", recovery.RepositoryConfig{Pool: pool})
	if err != nil {
		slog.Error("Failed creating account repository", "err", err)
		os.Exit(-1)
	}

	var smtpConfig notification.SMTPConfig
	copier.Copy(&smtpConfig, &config.SmtpConfig)
	notificationManager, err := notification.NewNotificationManagerWithOptions(
		config.RecoveryConfig.BaseUrl,
		notification.WithSMTP(smtpConfig),
		notification.WithDefaultTemplates(),
	)
	if err != nil {
		slog.Error("Failed creating notification manager", "err", err)
		os.Exit(-1)
	}

	recoveryService := recovery.NewRecoveryService(
		repo,
		notificationManager,
		config.RecoveryConfig.BaseUrl,
		recovery.WithKeyTTL(time.Duration(config.RecoveryConfig.KeyTTLHours)*time.Hour),
	)

	handler := api.NewHandler(recoveryService)

	// Recovery endpoints are a target for abuse, keep them rate limited.
	server.R.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(config.RecoveryConfig.RequestsPerMinute, time.Minute))
		handler.RegisterRoutes(r)
	})

	server.Run()
}
