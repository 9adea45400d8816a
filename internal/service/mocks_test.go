package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"telescrape/internal/models"
	"telescrape/pkg/telegram/types"
)

// mockStore is an in-memory MessageStore with the same insert-or-ignore
// contract as the SQLite store.
type mockStore struct {
	mu       sync.Mutex
	messages map[string]map[int64]models.Message

	saveErr    error
	cursorErr  error
	queryErr   error
	cleanupErr error

	cleanupCalls []int
}

func newMockStore() *mockStore {
	return &mockStore{messages: make(map[string]map[int64]models.Message)}
}

func (m *mockStore) SaveMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	channel := m.messages[msg.Channel]
	if channel == nil {
		channel = make(map[int64]models.Message)
		m.messages[msg.Channel] = channel
	}
	if _, exists := channel[msg.ID]; exists {
		return nil
	}
	channel[msg.ID] = *msg
	return nil
}

func (m *mockStore) GetCursor(_ context.Context, channel string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursorErr != nil {
		return 0, m.cursorErr
	}
	var max int64
	for id := range m.messages[channel] {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (m *mockStore) GetMessagesSince(_ context.Context, channel string, since time.Time) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var result []models.Message
	for _, msg := range m.messages[channel] {
		if !msg.Timestamp.Before(since) {
			result = append(result, msg)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].ID < result[j].ID
		}
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

func (m *mockStore) CleanupOldMessages(retentionDays int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupCalls = append(m.cleanupCalls, retentionDays)
	return m.cleanupErr
}

func (m *mockStore) count(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages[channel])
}

// mockTelegramClient serves scripted pages keyed by channel.
type mockTelegramClient struct {
	mu sync.Mutex

	pages      map[string][]types.RawMessage
	fetchErr   map[string]error
	healthErr  error
	fetchCalls []fetchCall
}

type fetchCall struct {
	channel string
	afterID int64
	limit   int
}

func newMockTelegramClient() *mockTelegramClient {
	return &mockTelegramClient{
		pages:    make(map[string][]types.RawMessage),
		fetchErr: make(map[string]error),
	}
}

func (m *mockTelegramClient) GetMessages(_ context.Context, channel string, afterID int64, limit int) ([]types.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls = append(m.fetchCalls, fetchCall{channel: channel, afterID: afterID, limit: limit})
	if err := m.fetchErr[channel]; err != nil {
		return nil, err
	}
	var page []types.RawMessage
	for _, msg := range m.pages[channel] {
		if msg.ID > afterID && len(page) < limit {
			page = append(page, msg)
		}
	}
	return page, nil
}

func (m *mockTelegramClient) HealthCheck(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthErr
}

func rawMessage(id int64, text string, ts time.Time) types.RawMessage {
	return types.RawMessage{
		ID:   id,
		Text: text,
		Date: ts.Unix(),
	}
}
