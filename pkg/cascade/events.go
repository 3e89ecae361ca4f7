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

package cascade

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

const (
	// StreamName is the JetStream stream carrying source-change events.
	StreamName = "MONREADY_EVENTS"
	// ConsumerName is the durable consumer the cascade worker drains.
	ConsumerName = "monready-cascade"

	subjectPrefix = "monready.source.changed"
	eventType     = "com.monready.source.changed"
)

// EventPublisher publishes source-change CloudEvents to JetStream. The
// entity store calls it after a platform or site write commits, keeping the
// cascade fully asynchronous to the write.
type EventPublisher struct {
	js  jetstream.JetStream
	log logger.Logger
}

func NewEventPublisher(js jetstream.JetStream, log logger.Logger) *EventPublisher {
	return &EventPublisher{js: js, log: log}
}

// PublishSourceChanged emits one event for a platform or site write.
func (p *EventPublisher) PublishSourceChanged(ctx context.Context, ref models.SourceRef, slug string) error {
	now := time.Now()

	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          "monready/store",
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         fmt.Sprintf("%s.%s", subjectPrefix, ref.Kind),
		Time:            &now,
		Data: models.SourceChangedEventData{
			Ref:       ref,
			Slug:      slug,
			Timestamp: now,
		},
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal source change event: %w", err)
	}

	ack, err := p.js.Publish(ctx, event.Subject, eventBytes)
	if err != nil {
		return fmt.Errorf("failed to publish source change event: %w", err)
	}

	p.log.Debug().
		Str("event_id", event.ID).
		Str("subject", event.Subject).
		Uint64("seq", ack.Sequence).
		Msg("published source change event")

	return nil
}

// sourceChangedEvent is the wire shape the consumer decodes; Data is typed
// where the publisher's envelope is generic.
type sourceChangedEvent struct {
	ID      string                        `json:"id"`
	Type    string                        `json:"type"`
	Subject string                        `json:"subject"`
	Data    models.SourceChangedEventData `json:"data"`
}

// Consumer drains source-change events into the Dispatcher.
type Consumer struct {
	dispatcher *Dispatcher
	log        logger.Logger
}

func NewConsumer(dispatcher *Dispatcher, log logger.Logger) *Consumer {
	return &Consumer{dispatcher: dispatcher, log: log}
}

// Run creates the stream and durable consumer, then blocks consuming
// events until ctx is canceled.
func (c *Consumer) Run(ctx context.Context, js jetstream.JetStream) error {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectPrefix + ".>"},
	})
	if err != nil {
		return fmt.Errorf("failed to create events stream: %w", err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   ConsumerName,
		AckPolicy: jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create cascade consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		c.handle(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming events: %w", err)
	}

	defer consumeCtx.Stop()

	<-ctx.Done()

	return ctx.Err()
}

func (c *Consumer) handle(ctx context.Context, msg jetstream.Msg) {
	var event sourceChangedEvent

	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		c.log.Error().Err(err).Str("subject", msg.Subject()).Msg("dropping undecodable source change event")

		if termErr := msg.Term(); termErr != nil {
			c.log.Warn().Err(termErr).Msg("failed to terminate event")
		}

		return
	}

	res, err := c.dispatcher.OnSourceChanged(ctx, event.Data.Ref)
	if err != nil {
		c.log.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("source_kind", string(event.Data.Ref.Kind)).
			Int64("source_id", event.Data.Ref.ID).
			Msg("cascade failed, event will be redelivered")

		if nakErr := msg.Nak(); nakErr != nil {
			c.log.Warn().Err(nakErr).Msg("failed to nak event")
		}

		return
	}

	c.log.Info().
		Str("event_id", event.ID).
		Int("updated", res.Updated).
		Int("errors", res.Errors).
		Msg("cascade event processed")

	if ackErr := msg.Ack(); ackErr != nil {
		c.log.Warn().Err(ackErr).Msg("failed to ack event")
	}
}
