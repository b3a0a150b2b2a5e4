package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Domenick1991/travelplanner/config"
	"github.com/Domenick1991/travelplanner/internal/agents"
	"github.com/Domenick1991/travelplanner/internal/airports"
	"github.com/Domenick1991/travelplanner/internal/bootstrap"
	"github.com/Domenick1991/travelplanner/internal/cache"
	"github.com/Domenick1991/travelplanner/internal/flights"
	"github.com/Domenick1991/travelplanner/internal/kafka"
	"github.com/Domenick1991/travelplanner/internal/retry"
	"github.com/Domenick1991/travelplanner/internal/service/planner"
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
	if cfg.SerpAPI.APIKey == "" {
		log.Fatalf("serpapi.api_key is not configured")
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatalf("openai.api_key is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver, err := airports.Load(cfg.Airports.Path)
	if err != nil {
		log.Fatalf("load airport table: %v", err)
	}
	log.Printf("loaded %d airports from %s", resolver.Len(), cfg.Airports.Path)

	var searchCache flights.SearchCache
	if cfg.Redis.Addr != "" {
		searchCache = cache.NewRedisCache(cfg.Redis, cfg.SerpAPI.CacheTTL())
	}
	flightClient := flights.NewClient(cfg.SerpAPI, searchCache)

	openaiClient := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))
	researcher := agents.NewResearcher(openaiClient, cfg.OpenAI.Model)
	lodgingFinder := agents.NewLodgingFinder(openaiClient, cfg.OpenAI.Model)
	itineraryPlanner := agents.NewItineraryPlanner(openaiClient, cfg.OpenAI.Model)

	caller := retry.New(cfg.Retry.Attempts, cfg.Retry.BaseWait())

	var opts []planner.PlannerServiceOption
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		opts = append(opts, planner.WithNotifications(producer, cfg.Kafka.NotificationsTopic))
	}

	planService := planner.NewPlannerService(
		flightClient,
		researcher,
		lodgingFinder,
		itineraryPlanner,
		caller,
		opts...,
	)

	if err := bootstrap.Run(ctx, cfg, planService, resolver); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
