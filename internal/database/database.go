package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	apperrors "telescrape/internal/errors"
	"telescrape/internal/migrations"
	"telescrape/internal/models"
	"telescrape/internal/security"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the dedup message store. Rows are append-only and keyed by
// (channel, id); the per-channel cursor is always derived from stored rows,
// never tracked separately, so ingestion and reads cannot diverge.
type Database struct {
	db        *sql.DB
	encryptor *encryptor
}

func New(dbPath string) (*Database, error) {
	if err := security.ValidateFilePath(dbPath); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0600) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close database file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseConnection, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseConnection, "failed to ping database")
	}

	schema, err := migrations.GetInitialSchema()
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to read schema: %w (close error: %v)", err, closeErr)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseMigration, "failed to read schema")
	}

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (close error: %v)", err, closeErr)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseMigration, "failed to initialize schema")
	}

	encryptor, err := NewEncryptor()
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize encryptor: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	return &Database{db: db, encryptor: encryptor}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// SaveMessage inserts a message. A second insert with the same (channel, id)
// is a silent no-op; the existing row is never modified.
func (d *Database) SaveMessage(ctx context.Context, msg *models.Message) error {
	encryptedText, err := d.encryptor.EncryptIfEnabled(msg.Text)
	if err != nil {
		return fmt.Errorf("failed to encrypt message text: %w", err)
	}

	var encryptedRaw *string
	if msg.RawData != nil {
		encrypted, err := d.encryptor.EncryptIfEnabled(*msg.RawData)
		if err != nil {
			return fmt.Errorf("failed to encrypt raw payload: %w", err)
		}
		encryptedRaw = &encrypted
	}

	err = retryableDBOperation(ctx, func() error {
		_, execErr := d.db.ExecContext(ctx, InsertMessageQuery,
			msg.ID,
			msg.Channel,
			encryptedText,
			msg.Timestamp.UTC(),
			msg.SenderID,
			encryptedRaw,
		)
		return execErr
	}, "save message")

	if err != nil {
		return apperrors.NewStorageError("insert", err).
			WithContext("channel", msg.Channel).
			WithContext("message_id", msg.ID)
	}

	return nil
}

// GetCursor returns the highest stored message id for the channel, or 0 when
// the channel has no rows. Unknown channels mean "nothing seen yet", not an
// error.
func (d *Database) GetCursor(ctx context.Context, channel string) (int64, error) {
	var cursor sql.NullInt64
	err := d.db.QueryRowContext(ctx, SelectCursorQuery, channel).Scan(&cursor)
	if err != nil {
		return 0, apperrors.NewStorageError("cursor query", err).WithContext("channel", channel)
	}
	if !cursor.Valid {
		return 0, nil
	}
	return cursor.Int64, nil
}

// GetMessagesSince returns all messages for the channel with timestamp at or
// after since, ascending by timestamp and then id.
func (d *Database) GetMessagesSince(ctx context.Context, channel string, since time.Time) ([]models.Message, error) {
	rows, err := d.db.QueryContext(ctx, SelectMessagesSinceQuery, channel, since.UTC())
	if err != nil {
		return nil, apperrors.NewStorageError("range query", err).WithContext("channel", channel)
	}
	defer func() {
		_ = rows.Close()
	}()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var encryptedText string
		var encryptedRaw *string

		if err := rows.Scan(&msg.ID, &msg.Channel, &encryptedText, &msg.Timestamp, &msg.SenderID, &encryptedRaw); err != nil {
			return nil, apperrors.NewStorageError("row scan", err).WithContext("channel", channel)
		}

		msg.Text, err = d.encryptor.DecryptIfEnabled(encryptedText)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt message text: %w", err)
		}

		if encryptedRaw != nil {
			raw, err := d.encryptor.DecryptIfEnabled(*encryptedRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt raw payload: %w", err)
			}
			msg.RawData = &raw
		}

		msg.Timestamp = msg.Timestamp.UTC()
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("row iteration", err).WithContext("channel", channel)
	}

	return messages, nil
}

// CountMessages returns the number of stored messages for a channel.
func (d *Database) CountMessages(ctx context.Context, channel string) (int64, error) {
	var count int64
	err := d.db.QueryRowContext(ctx, CountMessagesQuery, channel).Scan(&count)
	if err != nil {
		return 0, apperrors.NewStorageError("count query", err).WithContext("channel", channel)
	}
	return count, nil
}

// CleanupOldMessages deletes messages ingested more than retentionDays ago.
// Retention runs outside the scrape path; ingestion itself never deletes.
func (d *Database) CleanupOldMessages(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	_, err := d.db.Exec(DeleteOldMessagesQuery, retentionDays)
	if err != nil {
		return apperrors.NewStorageError("cleanup", err)
	}

	return nil
}
