package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

func newConversationRepoWithMock(t *testing.T) (*ConversationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ConversationRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestListRecentUserTurnsReturnsChronologicalOrder(t *testing.T) {
	repo, mock, done := newConversationRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"content"}).
		AddRow("segunda pregunta").
		AddRow("primera pregunta")
	mock.ExpectQuery("SELECT content").
		WithArgs("conv-1", string(domain.RoleUser), 2).
		WillReturnRows(rows)

	got, err := repo.ListRecentUserTurns(context.Background(), "conv-1", 2)
	if err != nil {
		t.Fatalf("ListRecentUserTurns() error = %v", err)
	}
	if len(got) != 2 || got[0] != "primera pregunta" || got[1] != "segunda pregunta" {
		t.Fatalf("expected chronological order, got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListRecentUserTurnsZeroLimit(t *testing.T) {
	repo, _, done := newConversationRepoWithMock(t)
	defer done()

	got, err := repo.ListRecentUserTurns(context.Background(), "conv-1", 0)
	if err != nil {
		t.Fatalf("ListRecentUserTurns() error = %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for zero limit, got %v", got)
	}
}

func TestAppendMessageInsertsRow(t *testing.T) {
	repo, mock, done := newConversationRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO conversation_messages").
		WithArgs("msg-1", "conv-1", string(domain.RoleUser), "hola", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AppendMessage(context.Background(), domain.ConversationMessage{
		ID:             "msg-1",
		ConversationID: "conv-1",
		Role:           domain.RoleUser,
		Content:        "hola",
	})
	if err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
