package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aicruel-backend/config"
	"aicruel-backend/models"
	"aicruel-backend/notify"
	"aicruel-backend/routes"
	"aicruel-backend/services"
	"aicruel-backend/store"

	"github.com/joho/godotenv"
	"github.com/twilio/twilio-go"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Deadline{},
		&models.NotificationSettings{},
		&models.ReminderInstance{},
		&models.DispatchLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	reminderStore := store.New(db)
	service := services.NewReminderService(
		reminderStore,
		services.NewWindowEvaluator(cfg.Scheduler.Tolerance),
		buildNotifiers(cfg),
		cfg.Scheduler.Workers,
		cfg.Scheduler.DispatchTimeout,
	)

	scheduler := services.NewScheduler(service, cfg.Scheduler.Interval)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: routes.SetupRouter(cfg),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()
	log.Printf("Listening on :%s", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Println("Shutting down...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
}

// buildNotifiers constructs one dispatcher per channel. Provider clients are
// created once here and handed in; nothing reads credentials after startup.
func buildNotifiers(cfg *config.Config) []notify.Notifier {
	var twilioClient *twilio.RestClient
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.Twilio.AccountSID,
			Password: cfg.Twilio.AuthToken,
		})
		twilioClient.SetTimeout(cfg.Scheduler.DispatchTimeout)
	} else {
		log.Println("Twilio credentials not found - SMS and WhatsApp notifications disabled")
	}

	return []notify.Notifier{
		notify.NewEmailNotifier(cfg.SMTP),
		notify.NewSMSNotifier(twilioClient, cfg.Twilio.SMSFrom),
		notify.NewWhatsAppNotifier(twilioClient, cfg.Twilio.WhatsAppFrom),
		notify.NewPushNotifier(),
	}
}
