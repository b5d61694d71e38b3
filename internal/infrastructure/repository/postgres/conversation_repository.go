package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026090102)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS conversations (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS conversation_messages (
	id TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id),
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversation_messages_conversation
	ON conversation_messages(conversation_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ConversationRepository) EnsureConversation(ctx context.Context, id, title string) (*domain.Conversation, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO conversations (id, title, created_at, updated_at)
VALUES ($1, $2, $3, $3)
ON CONFLICT (id) DO NOTHING
`, id, title, now)
	if err != nil {
		return nil, fmt.Errorf("ensure conversation insert: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
SELECT id, title, created_at, updated_at
FROM conversations
WHERE id = $1
`, id)

	var conv domain.Conversation
	if err := row.Scan(&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, fmt.Errorf("ensure conversation select: %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, message domain.ConversationMessage) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO conversation_messages (id, conversation_id, role, content, created_at)
VALUES ($1,$2,$3,$4,$5)
`, message.ID, message.ConversationID, string(message.Role), message.Content, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (r *ConversationRepository) ListRecentUserTurns(ctx context.Context, conversationID string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT content
FROM conversation_messages
WHERE conversation_id = $1 AND role = $2
ORDER BY created_at DESC
LIMIT $3
`, conversationID, string(domain.RoleUser), limit)
	if err != nil {
		return nil, fmt.Errorf("list recent user turns: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan user turn: %w", err)
		}
		out = append(out, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user turns: %w", err)
	}

	// Returned in descending order from SQL; reverse to keep chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
