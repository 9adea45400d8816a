package service

import (
	"context"
	"time"

	"telescrape/internal/models"
)

// MessageStore is the durable dedup store consumed by the scraper and report
// generator. Implementations must guarantee atomic insert-or-ignore on the
// (channel, id) pair.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *models.Message) error
	GetCursor(ctx context.Context, channel string) (int64, error)
	GetMessagesSince(ctx context.Context, channel string, since time.Time) ([]models.Message, error)
	CleanupOldMessages(retentionDays int) error
}
