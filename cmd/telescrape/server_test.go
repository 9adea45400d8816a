package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "telescrape/internal/errors"
	"telescrape/internal/models"
	"telescrape/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScraper struct {
	cursor int64
	err    error
	calls  []string
}

func (s *stubScraper) ScrapeChannel(_ context.Context, channel string) (int64, error) {
	s.calls = append(s.calls, channel)
	return s.cursor, s.err
}

type stubReports struct {
	report     string
	err        error
	lastSince  time.Time
	dailyCalls int
	sinceCalls int
}

func (s *stubReports) GenerateReport(_ context.Context, _ string, since time.Time) (string, error) {
	s.sinceCalls++
	s.lastSince = since
	return s.report, s.err
}

func (s *stubReports) GenerateDailyReport(_ context.Context, _ string) (string, error) {
	s.dailyCalls++
	return s.report, s.err
}

type stubOrchestrator struct {
	results  []models.ChannelResult
	channels []string
}

func (s *stubOrchestrator) RunCycle(_ context.Context, channels []string) []models.ChannelResult {
	s.channels = channels
	return s.results
}

type serverFixture struct {
	server       *Server
	scraper      *stubScraper
	reports      *stubReports
	orchestrator *stubOrchestrator
}

func newTestServer(t *testing.T) *serverFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cm, err := service.NewChannelManager([]models.ChannelConfig{{Name: "news"}, {Name: "updates"}})
	require.NoError(t, err)

	f := &serverFixture{
		scraper:      &stubScraper{},
		reports:      &stubReports{},
		orchestrator: &stubOrchestrator{},
	}
	cfg := &models.Config{Server: models.ServerConfig{Port: 8081}}
	f.server = NewServer(cfg, f.scraper, f.reports, f.orchestrator, cm, logger)
	return f
}

func (f *serverFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleMetrics(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Contains(t, snap, "counters")
	assert.Contains(t, snap, "uptime_seconds")
}

func TestHandleScrape_Success(t *testing.T) {
	f := newTestServer(t)
	f.scraper.cursor = 42

	body := bytes.NewBufferString(`{"channel": "news"}`)
	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/scrape", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"news"}, f.scraper.calls)

	var resp scrapeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "news", resp.Channel)
	assert.Equal(t, int64(42), resp.Cursor)
}

func TestHandleScrape_InvalidJSON(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/scrape", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.scraper.calls)
}

func TestHandleScrape_MissingChannel(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/scrape", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleScrape_UnknownChannel(t *testing.T) {
	f := newTestServer(t)

	body := bytes.NewBufferString(`{"channel": "not-configured"}`)
	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/scrape", body))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(apperrors.ErrCodeNotFound), resp["code"])
	assert.Contains(t, resp["error"], "not-configured")
}

func TestHandleScrape_ScraperError(t *testing.T) {
	f := newTestServer(t)
	f.scraper.err = apperrors.NewFetchError("news", 500, errors.New("gateway down"))

	body := bytes.NewBufferString(`{"channel": "news"}`)
	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/scrape", body))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleReport_Daily(t *testing.T) {
	f := newTestServer(t)
	f.reports.report = "No messages found in news for yesterday."

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/report?channel=news", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "No messages found in news for yesterday.", rec.Body.String())
	assert.Equal(t, 1, f.reports.dailyCalls)
	assert.Equal(t, 0, f.reports.sinceCalls)
}

func TestHandleReport_Since(t *testing.T) {
	f := newTestServer(t)
	f.reports.report = "# Activity Report for news since 2024-03-01\n"

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/report?channel=news&since=2024-03-01", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.reports.sinceCalls)
	assert.True(t, f.reports.lastSince.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHandleReport_InvalidSince(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/report?channel=news&since=03-01-2024", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.reports.sinceCalls)
}

func TestHandleReport_MissingChannel(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/report", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleReport_UnknownChannel(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/report?channel=ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleReport_GeneratorError(t *testing.T) {
	f := newTestServer(t)
	f.reports.err = apperrors.NewStorageError("query messages", errors.New("db gone"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/report?channel=news", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleCycle(t *testing.T) {
	f := newTestServer(t)
	f.orchestrator.results = []models.ChannelResult{
		{Channel: "news", Status: models.CycleStatusSuccess, Detail: "cursor at 7", Cursor: 7},
		{Channel: "updates", Status: models.CycleStatusError, Detail: "scrape failed: gateway down"},
	}

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/cycle", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"news", "updates"}, f.orchestrator.channels)

	var results []models.ChannelResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, models.CycleStatusSuccess, results[0].Status)
	assert.Equal(t, int64(7), results[0].Cursor)
	assert.Equal(t, models.CycleStatusError, results[1].Status)
}

func TestRouting_MethodNotAllowed(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/scrape", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodPost, "/api/v1/report", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
