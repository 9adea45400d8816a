package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "telescrape/internal/errors"
	"telescrape/pkg/telegram/types"

	"github.com/sirupsen/logrus"
)

// Client is the external fetch capability. GetMessages returns one bounded
// page of messages with id strictly greater than afterID, oldest first.
type Client interface {
	GetMessages(ctx context.Context, channel string, afterID int64, limit int) ([]types.RawMessage, error)
	HealthCheck(ctx context.Context) error
}

// TelegramClient talks to a Telegram gateway service over HTTP. The gateway
// owns the MTProto session; this client only pages messages out of it.
type TelegramClient struct {
	baseURL   string
	authToken string
	client    *http.Client
	logger    *logrus.Logger
}

func NewClient(baseURL, authToken string, httpClient *http.Client) Client {
	return NewClientWithLogger(baseURL, authToken, httpClient, nil)
}

func NewClientWithLogger(baseURL, authToken string, httpClient *http.Client, logger *logrus.Logger) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	baseURL = strings.TrimSuffix(baseURL, "/")

	return &TelegramClient{
		baseURL:   baseURL,
		authToken: authToken,
		client:    httpClient,
		logger:    logger,
	}
}

func (c *TelegramClient) GetMessages(ctx context.Context, channel string, afterID int64, limit int) ([]types.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/channels/%s/messages", c.baseURL, url.PathEscape(channel))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("afterId", strconv.FormatInt(afterID, 10))
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError(channel, 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.NewAuthError(channel, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.NewFetchError(channel, resp.StatusCode,
			fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var result types.GetMessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.NewFetchError(channel, resp.StatusCode,
			fmt.Errorf("failed to decode response: %w", err))
	}

	if result.Error != "" {
		return nil, apperrors.NewFetchError(channel, resp.StatusCode,
			fmt.Errorf("gateway error: %s", result.Error))
	}

	c.logger.WithFields(logrus.Fields{
		"channel":  channel,
		"after_id": afterID,
		"count":    len(result.Messages),
	}).Debug("Fetched message page from gateway")

	return result.Messages, nil
}

func (c *TelegramClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewFetchError("", 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return apperrors.NewAuthError("", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewFetchError("", resp.StatusCode,
			fmt.Errorf("gateway health check returned status %d", resp.StatusCode))
	}

	var health types.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return apperrors.NewFetchError("", resp.StatusCode,
			fmt.Errorf("failed to decode health response: %w", err))
	}

	if !health.Connected {
		return apperrors.NewFetchError("", resp.StatusCode,
			fmt.Errorf("gateway is not connected to Telegram"))
	}

	return nil
}
