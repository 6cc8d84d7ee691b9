// Package main runs the recovery service without a database or SMTP server.
// Minted keys are logged instead of emailed. Useful for:
// - Quick development and testing
// - Demo/prototype environments
// - Learning the API without infrastructure setup
//
// Note: All data is lost when the server stops. For production, use cmd/recover with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-recover/pkg/notification"
	"github.com/tendant/simple-recover/pkg/recovery"
	"github.com/tendant/simple-recover/pkg/recovery/api"
)

const baseURL = "http://localhost:4000"

// logNotifier prints notices to the log instead of delivering them.
type logNotifier struct{}

func (logNotifier) Send(noticeType notification.NoticeType, data notification.NotificationData, template notification.NoticeTemplate) error {
	slog.Info("Notice (not delivered in inmem mode)",
		"type", noticeType,
		"to", data.To,
		"confirm_link", data.Data["ConfirmLink"],
		"cancel_link", data.Data["CancelLink"],
	)
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory recovery service (no database required)")

	repo := recovery.NewInMemAccountRepository()
	seedAccounts(repo)

	notificationManager := notification.NewNotificationManager(baseURL)
	notificationManager.RegisterNotifier(notification.EmailSystem, logNotifier{})
	for _, noticeType := range []notification.NoticeType{notification.AccountConfirmNotice, notification.PasswordResetNotice} {
		if err := notificationManager.RegisterNotification(noticeType, notification.EmailSystem, notification.NoticeTemplate{
			Subject: "Verification",
			Text:    "{{.ConfirmLink}}",
		}); err != nil {
			slog.Error("Failed to register notice template", "err", err)
			os.Exit(-1)
		}
	}

	recoveryService := recovery.NewRecoveryService(repo, notificationManager, baseURL)
	handler := api.NewHandler(recoveryService)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	handler.RegisterRoutes(server.R)

	slog.Info("Try it", "request", "POST "+baseURL+"/recover {\"email\": \"demo@example.com\"}")
	server.Run()
}

func seedAccounts(repo *recovery.InMemAccountRepository) {
	for _, email := range []string{"demo@example.com", "admin@example.com"} {
		if _, err := repo.Create(context.Background(), recovery.CreateAccountParams{Email: email}); err != nil {
			slog.Error("Failed to seed account", "email", email, "err", err)
			os.Exit(-1)
		}
		slog.Info("Seeded account", "email", email)
	}
}
