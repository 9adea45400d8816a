package service

import (
	"context"
	"fmt"

	"telescrape/internal/metrics"
	"telescrape/internal/models"
	"telescrape/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Orchestrator runs one scrape-and-report pass over a list of channels.
type Orchestrator interface {
	RunCycle(ctx context.Context, channels []string) []models.ChannelResult
}

type orchestrator struct {
	scraper Scraper
	reports ReportGenerator
	logger  *logrus.Logger
}

func NewOrchestrator(scraper Scraper, reports ReportGenerator, logger *logrus.Logger) Orchestrator {
	return &orchestrator{
		scraper: scraper,
		reports: reports,
		logger:  logger,
	}
}

// RunCycle processes channels sequentially. A failing channel is recorded and
// skipped; it never aborts the remaining channels, and the cycle as a whole
// always returns one result per requested channel.
func (o *orchestrator) RunCycle(ctx context.Context, channels []string) []models.ChannelResult {
	ctx, span := tracing.StartSpan(ctx, "scrape_cycle",
		attribute.Int("cycle.channels", len(channels)),
	)
	defer span.End()

	results := make([]models.ChannelResult, 0, len(channels))
	for _, channel := range channels {
		results = append(results, o.runChannel(ctx, channel))
	}

	var failed int
	for _, r := range results {
		if r.Status == models.CycleStatusError {
			failed++
		}
	}

	o.logger.WithFields(logrus.Fields{
		"channels": len(channels),
		"failed":   failed,
	}).Info("Scrape cycle completed")

	metrics.IncrementCounter("scrape_cycles_total", nil, "Completed scrape cycles")
	tracing.AddSpanAttributes(ctx, attribute.Int("cycle.failed", failed))

	return results
}

func (o *orchestrator) runChannel(ctx context.Context, channel string) models.ChannelResult {
	cursor, err := o.scraper.ScrapeChannel(ctx, channel)
	if err != nil {
		o.logger.WithError(err).WithField("channel", channel).Error("Channel scrape failed")
		return models.ChannelResult{
			Channel: channel,
			Status:  models.CycleStatusError,
			Detail:  fmt.Sprintf("scrape failed: %v", err),
		}
	}

	report, err := o.reports.GenerateDailyReport(ctx, channel)
	if err != nil {
		o.logger.WithError(err).WithField("channel", channel).Error("Report generation failed")
		return models.ChannelResult{
			Channel: channel,
			Status:  models.CycleStatusError,
			Detail:  fmt.Sprintf("report failed: %v", err),
			Cursor:  cursor,
		}
	}

	return models.ChannelResult{
		Channel: channel,
		Status:  models.CycleStatusSuccess,
		Detail:  fmt.Sprintf("cursor at %d", cursor),
		Cursor:  cursor,
		Report:  report,
	}
}
