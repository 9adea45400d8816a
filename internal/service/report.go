package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"telescrape/internal/constants"
	"telescrape/internal/models"
	"telescrape/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ReportGenerator renders day-bucketed activity reports from the store. The
// output is a pure function of the stored snapshot and the window start.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, channel string, since time.Time) (string, error)
	GenerateDailyReport(ctx context.Context, channel string) (string, error)
}

type reportGenerator struct {
	store  MessageStore
	logger *logrus.Logger
	now    func() time.Time
}

func NewReportGenerator(store MessageStore, logger *logrus.Logger) ReportGenerator {
	return &reportGenerator{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// NewReportGeneratorWithClock allows tests to pin the reference time used to
// compute the "yesterday" window.
func NewReportGeneratorWithClock(store MessageStore, logger *logrus.Logger, now func() time.Time) ReportGenerator {
	return &reportGenerator{
		store:  store,
		logger: logger,
		now:    now,
	}
}

func (g *reportGenerator) GenerateReport(ctx context.Context, channel string, since time.Time) (string, error) {
	timeframe := fmt.Sprintf("since %s", since.UTC().Format("2006-01-02"))
	return g.generate(ctx, channel, since, timeframe)
}

// GenerateDailyReport covers everything from the start of yesterday (UTC)
// onward, relative to invocation time.
func (g *reportGenerator) GenerateDailyReport(ctx context.Context, channel string) (string, error) {
	yesterday := g.now().UTC().AddDate(0, 0, -1)
	since := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
	return g.generate(ctx, channel, since, "for yesterday")
}

func (g *reportGenerator) generate(ctx context.Context, channel string, since time.Time, timeframe string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "generate_report",
		attribute.String("channel", channel),
	)
	defer span.End()

	messages, err := g.store.GetMessagesSince(ctx, channel, since)
	if err != nil {
		tracing.RecordError(ctx, err)
		return "", err
	}

	g.logger.WithFields(logrus.Fields{
		"channel":  channel,
		"since":    since.UTC().Format(time.RFC3339),
		"messages": len(messages),
	}).Debug("Generating report")

	tracing.AddSpanAttributes(ctx, attribute.Int("report.messages", len(messages)))

	return renderTextReport(messages, channel, timeframe), nil
}

// renderTextReport builds the markdown report. Deterministic: the same
// message slice and timeframe always render byte-identical output.
func renderTextReport(messages []models.Message, channel, timeframe string) string {
	if len(messages) == 0 {
		return fmt.Sprintf("No messages found in %s %s.", channel, timeframe)
	}

	byDay, days := groupMessagesByDay(messages)

	var report strings.Builder
	fmt.Fprintf(&report, "# Activity Report for %s %s\n\n", channel, timeframe)

	report.WriteString("## Summary\n")
	fmt.Fprintf(&report, "- Total messages: %d\n", len(messages))
	fmt.Fprintf(&report, "- Days with activity: %d\n", len(days))
	fmt.Fprintf(&report, "- Most active day: %s\n\n", mostActiveDay(byDay, days))

	report.WriteString("## Message Breakdown by Day\n")

	for _, day := range days {
		dayMessages := byDay[day]
		fmt.Fprintf(&report, "### %s (%d messages)\n\n", day, len(dayMessages))

		sampleCount := len(dayMessages)
		if sampleCount > constants.DefaultReportSampleSize {
			sampleCount = constants.DefaultReportSampleSize
		}
		for i := 0; i < sampleCount; i++ {
			fmt.Fprintf(&report, "- %s\n", truncateText(dayMessages[i].Text, constants.DefaultReportSnippetLength))
		}

		if len(dayMessages) > sampleCount {
			fmt.Fprintf(&report, "- ...and %d more messages\n", len(dayMessages)-sampleCount)
		}

		report.WriteString("\n")
	}

	return report.String()
}

// groupMessagesByDay buckets messages by UTC calendar day, preserving the
// store's ascending order within each bucket. Returns the buckets and the
// sorted list of day keys.
func groupMessagesByDay(messages []models.Message) (map[string][]models.Message, []string) {
	byDay := make(map[string][]models.Message)
	var days []string

	for _, msg := range messages {
		day := msg.Timestamp.UTC().Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], msg)
	}

	sort.Strings(days)
	return byDay, days
}

// mostActiveDay finds the day with the most messages. Ties go to the
// earliest day, which the sorted iteration guarantees.
func mostActiveDay(byDay map[string][]models.Message, sortedDays []string) string {
	var best string
	var max int

	for _, day := range sortedDays {
		if len(byDay[day]) > max {
			best = day
			max = len(byDay[day])
		}
	}

	return fmt.Sprintf("%s (%d messages)", best, max)
}

// truncateText caps a message body at limit runes with an ellipsis marker.
func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
