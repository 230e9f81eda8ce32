package repository

import (
	"fmt"
	"testing"

	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository_CreateAndList(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewChatRepository()

	for i := 0; i < 3; i++ {
		msg := &models.ChatMessage{
			SessionID:  "s1",
			Message:    fmt.Sprintf("question %d", i),
			Intent:     "question",
			Focus:      "cloud",
			Response:   "Based on the document, Cloud is nice.",
			Confidence: 0.8,
			Source:     "document",
		}
		require.NoError(t, repo.Create(msg))
		assert.NotZero(t, msg.ID)
		assert.False(t, msg.CreatedAt.IsZero())
	}
	require.NoError(t, repo.Create(&models.ChatMessage{
		SessionID: "s2",
		Message:   "other",
		Intent:    "statement",
		Response:  "I couldn't find a specific answer to your question.",
		Source:    "none",
	}))

	messages, total, err := repo.ListBySession("s1", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, messages, 3)
	assert.Equal(t, "question 0", messages[0].Message)
	assert.Equal(t, "question 2", messages[2].Message)

	// 分页
	messages, total, err = repo.ListBySession("s1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, messages, 1)
	assert.Equal(t, "question 1", messages[0].Message)

	count, err := repo.CountBySession("s2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountBySession("nobody")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestChatRepository_RequiresSession(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := NewChatRepositoryWithDB(db).Create(&models.ChatMessage{Message: "hi"})
	assert.ErrorIs(t, err, models.ErrEmptySessionID)
}
