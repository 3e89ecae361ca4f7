/*
 * Copyright 2025 Monready Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"

	"github.com/monready/monready/pkg/cascade"
	"github.com/monready/monready/pkg/debounce"
	"github.com/monready/monready/pkg/engine"
	"github.com/monready/monready/pkg/inventory"
	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/notify"
	"github.com/monready/monready/pkg/route"
	"github.com/monready/monready/pkg/store"
	"github.com/monready/monready/pkg/vocab"
)

func main() {
	configPath := flag.String("config", "/etc/monready/monready.json", "Path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.NewPostgresStore(ctx, cfg.DatabaseDSN, zl)
	if err != nil {
		log.Fatalf("Failed to connect to entity store: %v", err)
	}
	defer st.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer func() { _ = redisClient.Close() }()

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("monready"))
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		log.Fatalf("Failed to create JetStream context: %v", err)
	}

	resolver := vocab.NewResolver(vocab.NewStaticStore(cfg.Vocabularies), zl)
	eng := engine.New(cfg.Engine, resolver, zl)
	notifier := notify.NewClient(cfg.Notify, zl)

	scheduler := debounce.NewScheduler(
		debounce.NewRedisTokenStore(redisClient),
		time.Duration(cfg.DebounceWindow),
		notifier.Refresh,
		zl,
	)

	router := route.NewRouter(route.Config{
		PrimarySourceID: cfg.Notify.PrimarySourceID,
		RemoveSourceID:  cfg.Notify.RemoveSourceID,
	}, zl)

	pipeline := engine.NewPipeline(eng, st, router, scheduler, zl)
	dispatcher := cascade.NewDispatcher(st, pipeline, cfg.BatchSize, zl)
	consumer := cascade.NewConsumer(dispatcher, zl)

	builder := inventory.NewBuilder(eng, resolver)
	invServer := inventory.NewServer(st, builder, cfg.APIKey, zl)
	invServer.Mount("/api/source-changed", cascade.NewWebhook(cascade.NewEventPublisher(js, zl), zl))

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           invServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		errCh <- consumer.Run(ctx, js)
	}()

	go func() {
		zl.Info().Str("addr", cfg.ListenAddr).Msg("inventory export listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zl.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			zl.Error().Err(err).Msg("service failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn().Err(err).Msg("http shutdown incomplete")
	}
}
