package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
	"github.com/escuelasabatica/lesson-assistant/internal/core/ports"
)

// AnswerUseCase composes cache, retrieval, generation and conversation
// persistence into the two inbound question flows.
type AnswerUseCase struct {
	retriever     ports.PassageRetriever
	generator     ports.AnswerGenerator
	cache         ports.ResponseCache
	conversations ports.ConversationStore
	topK          int
	now           func() time.Time
}

func NewAnswerUseCase(
	retriever ports.PassageRetriever,
	generator ports.AnswerGenerator,
	cache ports.ResponseCache,
	conversations ports.ConversationStore,
	topK int,
) *AnswerUseCase {
	if topK <= 0 {
		topK = 5
	}
	return &AnswerUseCase{
		retriever:     retriever,
		generator:     generator,
		cache:         cache,
		conversations: conversations,
		topK:          topK,
		now:           time.Now,
	}
}

// Ask answers a single-shot question. Identical questions within the cache
// TTL are served from disk without touching the embedding service or the LLM.
func (uc *AnswerUseCase) Ask(ctx context.Context, question string, limit int) (*domain.Answer, error) {
	if limit <= 0 {
		limit = uc.topK
	}
	dateDetected := ResolveDate(question, uc.now()) != nil

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, question, limit)
		if err != nil {
			slog.Warn("cache_read_failed", "error", err)
		} else if cached != nil {
			cached.Cached = true
			cached.DateDetected = dateDetected
			return cached, nil
		}
	}

	passages := uc.retriever.Retrieve(ctx, question, limit, nil, uc.now())
	answer, err := uc.generate(ctx, question, passages)
	if err != nil {
		return nil, err
	}
	answer.DateDetected = dateDetected

	if uc.cache != nil {
		if err := uc.cache.Put(ctx, question, limit, answer); err != nil {
			slog.Warn("cache_write_failed", "error", err)
		}
	}
	return answer, nil
}

// Chat answers a message inside a conversation. Follow-up questions are
// context-dependent, so chat answers bypass the response cache. The returned
// string is the conversation id, created on first use.
func (uc *AnswerUseCase) Chat(
	ctx context.Context,
	conversationID, message string,
	history []string,
	limit int,
) (*domain.Answer, string, error) {
	if limit <= 0 {
		limit = uc.topK
	}

	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	if uc.conversations != nil {
		if _, err := uc.conversations.EnsureConversation(ctx, conversationID, deriveConversationTitle(message)); err != nil {
			return nil, "", fmt.Errorf("ensure conversation: %w", err)
		}
		uc.appendMessage(ctx, conversationID, domain.RoleUser, message)
		if len(history) == 0 {
			turns, err := uc.conversations.ListRecentUserTurns(ctx, conversationID, historyTurns+1)
			if err != nil {
				slog.Warn("list_recent_turns_failed", "error", err)
			} else if len(turns) > 1 {
				// Last stored turn is the message itself.
				history = turns[:len(turns)-1]
			}
		}
	}

	passages := uc.retriever.Retrieve(ctx, message, limit, history, uc.now())
	answer, err := uc.generate(ctx, message, passages)
	if err != nil {
		return nil, "", err
	}
	answer.DateDetected = ResolveDate(message, uc.now()) != nil

	if uc.conversations != nil {
		uc.appendMessage(ctx, conversationID, domain.RoleAssistant, answer.Text)
	}
	return answer, conversationID, nil
}

func (uc *AnswerUseCase) generate(ctx context.Context, question string, passages []domain.Passage) (*domain.Answer, error) {
	text, err := uc.generator.GenerateAnswer(ctx, question, passages)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &domain.Answer{
		Text:    text,
		Sources: passages,
	}, nil
}

func (uc *AnswerUseCase) appendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string) {
	err := uc.conversations.AppendMessage(ctx, domain.ConversationMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      uc.now().UTC(),
	})
	if err != nil {
		slog.Warn("append_message_failed", "conversation_id", conversationID, "error", err)
	}
}
