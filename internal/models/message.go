package models

import "time"

// Message represents one ingested chat message. The (Channel, ID) pair is
// globally unique in the store; IDs are channel-local sequence numbers
// assigned by the source system.
type Message struct {
	ID        int64     `json:"id"`
	Channel   string    `json:"channel"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	SenderID  *int64    `json:"senderId,omitempty"`
	RawData   *string   `json:"rawData,omitempty"` // opaque original payload, never parsed
}

// CycleStatus is the outcome of one channel within a scrape cycle.
type CycleStatus string

const (
	CycleStatusSuccess CycleStatus = "success"
	CycleStatusError   CycleStatus = "error"
)

// ChannelResult records the outcome of scraping and reporting one channel.
type ChannelResult struct {
	Channel string      `json:"channel"`
	Status  CycleStatus `json:"status"`
	Detail  string      `json:"detail"`
	Cursor  int64       `json:"cursor,omitempty"`
	Report  string      `json:"report,omitempty"`
}
