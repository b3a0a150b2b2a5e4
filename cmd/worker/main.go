package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/travelplanner/config"
	"github.com/Domenick1991/travelplanner/internal/email"
	"github.com/Domenick1991/travelplanner/internal/kafka"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Email.APIKey == "" || cfg.Email.From == "" {
		log.Fatalf("email.api_key and email.from must be configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(cfg.Email.APIKey, cfg.Email.BaseURL, cfg.Email.From)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.PlanEvent) error {
			if err := sender.Send(ctx, event.Email, event.Subject, event.HTMLBody); err != nil {
				// At-most-once: log and move on, do not redeliver.
				log.Printf("send plan %s to %s: %v", event.PlanID, event.Email, err)
				return nil
			}
			log.Printf("emailed plan %s to %s", event.PlanID, event.Email)
			return nil
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	s := <-sig
	log.Printf("received signal %v, shutting down", s)
}
