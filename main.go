package main

import (
	"context"
	"log"
	"strings"

	api "dealpilot-backend/cmd/api"
	creatordomain "dealpilot-backend/internal/creator/domain"
	creatorRepo "dealpilot-backend/internal/creator/repository"
	dealdomain "dealpilot-backend/internal/deal/domain"
	dealRepo "dealpilot-backend/internal/deal/repository"
	"dealpilot-backend/internal/intake"
	"dealpilot-backend/internal/notification"
	notificationdomain "dealpilot-backend/internal/notification/domain"
	notificationRepo "dealpilot-backend/internal/notification/repository"
	"dealpilot-backend/internal/reply"
	"dealpilot-backend/pkg/ai"
	"dealpilot-backend/pkg/config"
	"dealpilot-backend/pkg/database"
	"dealpilot-backend/pkg/gmail"
	"dealpilot-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&creatordomain.Creator{},
		&creatordomain.GmailCredential{},
		&dealdomain.Brand{},
		&dealdomain.InboundEmail{},
		&dealdomain.Deal{},
		&notificationdomain.OutboundMessage{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	creatorRepository := creatorRepo.NewCreatorRepository(db)
	credentialRepository := creatorRepo.NewCredentialRepository(db)
	inboundEmailRepository := dealRepo.NewInboundEmailRepository(db)
	dealRepository := dealRepo.NewDealRepository(db)
	brandRepository := dealRepo.NewBrandRepository(db)
	outboundRepository := notificationRepo.NewOutboundMessageRepository(db)

	// Initialize AI classifier; sync degrades gracefully without one
	classifier, err := ai.NewClassifier(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	}, logg)
	if err != nil {
		logg.Warn("ai classifier unavailable, emails will be filed for manual review", "error", err)
	}
	insights := intake.NewInsightProvider(classifier, logg)

	// Initialize SMS dispatch
	twilioClient := notification.NewTwilioClient(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioMessagingServiceSID,
		cfg.TwilioFromNumber,
	)
	dispatcher := notification.NewDispatcher(twilioClient, outboundRepository, logg)

	// Initialize Gmail service and the mailbox synchronizer
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	synchronizer := intake.NewSynchronizer(
		intake.NewGmailSessionFactory(gmailService),
		creatorRepository,
		credentialRepository,
		inboundEmailRepository,
		dealRepository,
		brandRepository,
		insights,
		dispatcher,
		logg,
		cfg.SyncFallbackDays,
		cfg.SyncFallbackMax,
	)

	// Start the Pub/Sub gmail-watch listener when a project is configured
	if cfg.GoogleProjectID != "" {
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}

		listener, err := intake.NewListener(
			context.Background(),
			cfg.GoogleProjectID,
			topicName,
			creatorRepository,
			credentialRepository,
			synchronizer,
			logg,
		)
		if err != nil {
			logg.Error("failed to initialize gmail notification listener", "error", err)
		} else {
			go func() {
				if err := listener.Listen(context.Background()); err != nil {
					logg.Error("gmail notification listener stopped", "error", err)
				}
			}()
		}
	} else {
		logg.Warn("GOOGLE_PROJECT_ID not configured, gmail notification listener disabled")
	}

	// Initialize reply handling and the HTTP surface
	replyUsecase := reply.NewUsecase(creatorRepository, dealRepository, inboundEmailRepository, logg)
	handler := api.NewHandler(replyUsecase, cfg, logg)

	logg.Info("server starting", "port", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
