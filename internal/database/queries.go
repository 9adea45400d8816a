package database

// Message queries
const (
	InsertMessageQuery = `
		INSERT INTO messages (id, channel, text, timestamp, sender_id, raw_data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (channel, id) DO NOTHING
	`

	SelectCursorQuery = `
		SELECT MAX(id) FROM messages WHERE channel = ?
	`

	SelectMessagesSinceQuery = `
		SELECT id, channel, text, timestamp, sender_id, raw_data
		FROM messages
		WHERE channel = ? AND timestamp >= ?
		ORDER BY timestamp ASC, id ASC
	`

	CountMessagesQuery = `
		SELECT COUNT(*) FROM messages WHERE channel = ?
	`

	DeleteOldMessagesQuery = `
		DELETE FROM messages
		WHERE created_at < datetime('now', '-' || ? || ' days')
	`
)
