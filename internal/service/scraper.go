package service

import (
	"context"
	"strconv"

	"telescrape/internal/metrics"
	"telescrape/internal/models"
	"telescrape/internal/tracing"
	"telescrape/pkg/telegram"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Scraper ingests new messages for one channel and returns the advanced
// cursor.
type Scraper interface {
	ScrapeChannel(ctx context.Context, channel string) (int64, error)
}

type scraper struct {
	client   telegram.Client
	store    MessageStore
	pageSize int
	logger   *logrus.Logger
}

func NewScraper(client telegram.Client, store MessageStore, pageSize int, logger *logrus.Logger) Scraper {
	return &scraper{
		client:   client,
		store:    store,
		pageSize: pageSize,
		logger:   logger,
	}
}

// ScrapeChannel fetches one bounded page of messages newer than the stored
// cursor and persists them. A channel with a deep backlog catches up
// incrementally across scheduled invocations; there is no pagination loop
// here. The returned cursor is recomputed from durable rows rather than
// assembled from the fetched batch, so it can never run ahead of what was
// actually persisted.
func (s *scraper) ScrapeChannel(ctx context.Context, channel string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "scrape_channel",
		attribute.String("channel", channel),
	)
	defer span.End()

	cursor, err := s.store.GetCursor(ctx, channel)
	if err != nil {
		tracing.RecordError(ctx, err)
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"channel": channel,
		"cursor":  cursor,
	}).Debug("Scraping channel")

	fetched, err := s.client.GetMessages(ctx, channel, cursor, s.pageSize)
	if err != nil {
		metrics.IncrementCounter("scrape_fetch_errors_total", map[string]string{
			"channel": channel,
		}, "Failed gateway fetches")
		tracing.RecordError(ctx, err)
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"channel": channel,
		"count":   len(fetched),
	}).Info("Fetched new messages")

	for i := range fetched {
		raw := fetched[i]
		msg := models.Message{
			ID:        raw.ID,
			Channel:   channel,
			Text:      raw.Text,
			Timestamp: raw.Timestamp(),
			SenderID:  raw.SenderID,
		}
		if raw.Raw != "" {
			rawData := raw.Raw
			msg.RawData = &rawData
		}

		if err := s.store.SaveMessage(ctx, &msg); err != nil {
			// Whatever persisted before this failure stays durable; the
			// derived cursor reflects it and the next invocation resumes
			// from the true persisted max id.
			metrics.IncrementCounter("scrape_save_errors_total", map[string]string{
				"channel": channel,
			}, "Failed message saves")
			tracing.RecordError(ctx, err)
			return 0, err
		}
	}

	newCursor, err := s.store.GetCursor(ctx, channel)
	if err != nil {
		tracing.RecordError(ctx, err)
		return 0, err
	}

	metrics.AddToCounter("scrape_messages_ingested_total", float64(len(fetched)), map[string]string{
		"channel": channel,
	}, "Messages ingested per channel")

	tracing.AddSpanAttributes(ctx,
		attribute.Int("scrape.fetched", len(fetched)),
		attribute.String("scrape.cursor", strconv.FormatInt(newCursor, 10)),
	)

	return newCursor, nil
}
