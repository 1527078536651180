// Command poller performs one mailbox sync pass over every stored credential
// and exits. Intended for cron-style scheduling.
package main

import (
	"context"
	"log"
	"os"

	creatorRepo "dealpilot-backend/internal/creator/repository"
	dealRepo "dealpilot-backend/internal/deal/repository"
	"dealpilot-backend/internal/intake"
	"dealpilot-backend/internal/notification"
	notificationRepo "dealpilot-backend/internal/notification/repository"
	"dealpilot-backend/pkg/ai"
	"dealpilot-backend/pkg/config"
	"dealpilot-backend/pkg/database"
	"dealpilot-backend/pkg/gmail"
	"dealpilot-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	creatorRepository := creatorRepo.NewCreatorRepository(db)
	credentialRepository := creatorRepo.NewCredentialRepository(db)
	inboundEmailRepository := dealRepo.NewInboundEmailRepository(db)
	dealRepository := dealRepo.NewDealRepository(db)
	brandRepository := dealRepo.NewBrandRepository(db)
	outboundRepository := notificationRepo.NewOutboundMessageRepository(db)

	classifier, err := ai.NewClassifier(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	}, logg)
	if err != nil {
		logg.Warn("ai classifier unavailable, emails will be filed for manual review", "error", err)
	}

	twilioClient := notification.NewTwilioClient(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioMessagingServiceSID,
		cfg.TwilioFromNumber,
	)
	dispatcher := notification.NewDispatcher(twilioClient, outboundRepository, logg)

	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	synchronizer := intake.NewSynchronizer(
		intake.NewGmailSessionFactory(gmailService),
		creatorRepository,
		credentialRepository,
		inboundEmailRepository,
		dealRepository,
		brandRepository,
		intake.NewInsightProvider(classifier, logg),
		dispatcher,
		logg,
		cfg.SyncFallbackDays,
		cfg.SyncFallbackMax,
	)

	if err := synchronizer.RunAll(context.Background()); err != nil {
		logg.Error("mailbox poll finished with errors", "error", err)
		os.Exit(1)
	}
	logg.Info("mailbox poll finished")
}
