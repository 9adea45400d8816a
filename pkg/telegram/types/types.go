package types

import "time"

// RawMessage is one message as returned by the gateway API. Date is a unix
// timestamp in seconds, the gateway's native representation.
type RawMessage struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Date     int64  `json:"date"`
	SenderID *int64 `json:"senderId,omitempty"`
	Raw      string `json:"raw,omitempty"`
}

// Timestamp converts the gateway's unix seconds into a UTC time.
func (m RawMessage) Timestamp() time.Time {
	return time.Unix(m.Date, 0).UTC()
}

// GetMessagesResponse is the gateway's envelope for a message page.
type GetMessagesResponse struct {
	Messages []RawMessage `json:"messages"`
	Error    string       `json:"error,omitempty"`
}

// HealthResponse is the gateway's health probe payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
}
