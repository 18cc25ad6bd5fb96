package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/baltotest/freight-api/config"
	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/internal/container"
	"github.com/baltotest/freight-api/internal/infrastructure/messaging"
	"github.com/baltotest/freight-api/pkg/helpers"
	"github.com/baltotest/freight-api/pkg/mailer"
	"github.com/baltotest/freight-api/pkg/mailer/templates"
)

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env, cfg.LogLevel)

	var m application.Mailer
	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			log.Fatal("MAIL_SEND_ENABLED=true but Mailgun is not configured")
		}
		m = mailer.NewTemplateMailer(
			mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
			templates.Branding{
				AppName:        cfg.AppName,
				CompanyName:    cfg.CompanyName,
				CompanyAddress: cfg.CompanyAddress,
				SupportURL:     cfg.SupportURL,
			},
			logger,
		)
	} else {
		logger.Info("MAIL_SEND_ENABLED=false; emails will be logged, not sent")
	}
	svc := application.NewNotificationService(m, logger)

	permanent := func(err error) bool { return errors.Is(err, application.ErrValidation) }

	var consumer messaging.Consumer
	var err error
	switch cfg.EventBroker {
	case container.BrokerRabbitMQ:
		consumer, err = messaging.NewRabbitConsumer(cfg.RabbitMQURL, cfg.WorkerPrefetch, permanent, logger)
	case container.BrokerKafka:
		consumer, err = messaging.NewKafkaConsumer(cfg.KafkaBrokerList(), cfg.KafkaGroupID, logger)
	default:
		log.Fatalf("unknown event broker %q", cfg.EventBroker)
	}
	if err != nil {
		log.Fatalf("consumer: %v", err)
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx, svc.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("event worker stopped")
		return
	}
	logger.Info("event worker exited")
}
