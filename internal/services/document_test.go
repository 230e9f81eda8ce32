package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fyerfyer/doc-chatbot/internal/cache"
	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/fyerfyer/doc-chatbot/internal/nlp"
	"github.com/fyerfyer/doc-chatbot/internal/repository"
	"github.com/fyerfyer/doc-chatbot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_UploadPDF(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	data := buildPDF(t, cloudText)

	doc, err := env.docs.Upload(ctx, "s1", "cloud.pdf", int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, models.DocStatusCompleted, doc.Status)
	assert.Equal(t, "cloud.pdf", doc.FileName)
	assert.Equal(t, "pdf", doc.FileType)
	assert.Equal(t, int64(len(data)), doc.FileSize)
	assert.Positive(t, doc.SentenceCount)
	assert.Contains(t, doc.KeywordList(), "cloud")
	assert.NotNil(t, doc.ProcessedAt)

	// 会话中保存了分析结果
	structure, found, err := env.sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc.SentenceCount, len(structure.Sentences))

	// 上传记录已持久化
	saved, err := env.docs.Get(ctx, "s1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusCompleted, saved.Status)
	assert.Equal(t, "s1", saved.SessionID)

	exists, err := env.storage.Exists(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDocumentService_UploadValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.docs.Upload(ctx, "s1", "cloud.pdf", 0, nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = env.docs.Upload(ctx, "s1", "  ", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyFileName)

	_, err = env.docs.Upload(ctx, "s1", "notes.docx", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	// 默认只允许PDF
	_, err = env.docs.Upload(ctx, "s1", "notes.txt", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	// 校验失败不会留下记录
	docs, total, err := env.docs.List(ctx, "s1", 0, 10, "")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, docs)
}

func TestDocumentService_FileTooLarge(t *testing.T) {
	env := setupTestEnv(t, WithAllowedExtensions("txt"), WithMaxFileSize(16))
	ctx := context.Background()

	// 声明的大小超限
	_, err := env.docs.Upload(ctx, "s1", "big.txt", 1024, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// 声明的大小未知，实际内容超限
	_, err = env.docs.Upload(ctx, "s1", "big.txt", -1, strings.NewReader(strings.Repeat("a", 64)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	files, err := env.storage.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files, "oversized upload should be removed")
}

func TestDocumentService_ExtractionFailureKeepsSession(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.upload(t, "s1", "cloud.pdf", buildPDF(t, cloudText)))
	before, _, err := env.sessions.Load(ctx, "s1")
	require.NoError(t, err)

	// 无效PDF
	doc, err := env.docs.Upload(ctx, "s1", "broken.pdf", 10, strings.NewReader("not a pdf!"))
	assert.ErrorIs(t, err, ErrTextExtraction)
	require.NotNil(t, doc)
	assert.Equal(t, models.DocStatusFailed, doc.Status)
	assert.NotEmpty(t, doc.Error)

	// 没有文本的PDF
	err = env.upload(t, "s1", "blank.pdf", buildPDF(t, ""))
	assert.ErrorIs(t, err, ErrTextExtraction)

	after, found, err := env.sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, before, after, "failed uploads must not touch the session document")

	failed, total, err := env.docs.List(ctx, "s1", 0, 10, string(models.DocStatusFailed))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, failed, 2)
}

func TestDocumentService_ReplacesSessionDocument(t *testing.T) {
	env := setupTestEnv(t, WithAllowedExtensions(".pdf", ".txt", ".md"))
	ctx := context.Background()

	require.NoError(t, env.upload(t, "s1", "cloud.txt", []byte(cloudText)))
	require.NoError(t, env.upload(t, "s1", "ai.md", []byte("# AI\n\nAI is advancing rapidly.")))

	structure, _, err := env.sessions.Load(ctx, "s1")
	require.NoError(t, err)
	for _, s := range structure.Sentences {
		assert.NotContains(t, s, "Cloud computing")
	}
	assert.Contains(t, strings.Join(structure.Sentences, " "), "AI is advancing rapidly.")

	// 其他会话不受影响
	_, found, err := env.sessions.Load(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, found)
}

// readOnlyCache 写入总是失败的缓存
type readOnlyCache struct {
	cache.Cache
}

func (readOnlyCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("cache is read-only")
}

func TestDocumentService_SessionWriteFailure(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	mem, err := cache.NewMemoryCache(cache.DefaultConfig())
	require.NoError(t, err)
	sessions := session.NewStore(readOnlyCache{mem})

	res, err := nlp.NewResources(nlp.WithoutWarmup())
	require.NoError(t, err)
	repo := repository.NewDocumentRepositoryWithDB(env.db)
	docs := NewDocumentService(env.storage, nlp.NewTextAnalyzer(res), sessions, WithDocumentRepository(repo))
	require.NoError(t, docs.Init())

	data := buildPDF(t, cloudText)
	doc, err := docs.Upload(ctx, "s1", "cloud.pdf", int64(len(data)), bytes.NewReader(data))
	require.Error(t, err)

	// 会话文档未写入，上传记录标记为失败
	_, found, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)

	saved, err := repo.GetByID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, saved.Status)
	assert.Contains(t, saved.Error, "read-only")
}

func TestDocumentService_GetNotFound(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.docs.Get(context.Background(), "s1", "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_GetOtherSession(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	data := buildPDF(t, cloudText)

	doc, err := env.docs.Upload(ctx, "alice", "cloud.pdf", int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)

	_, err = env.docs.Get(ctx, "mallory", doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	saved, err := env.docs.Get(ctx, "alice", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, saved.ID)
}

func TestDocumentService_ClearSession(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.upload(t, "s1", "cloud.pdf", buildPDF(t, cloudText)))
	require.NoError(t, env.docs.ClearSession(ctx, "s1"))

	_, found, err := env.sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDocumentService_FilenameSanitized(t *testing.T) {
	env := setupTestEnv(t, WithAllowedExtensions(".txt"))

	doc, err := env.docs.Upload(context.Background(), "s1", "../../etc/notes.txt", int64(len(cloudText)), strings.NewReader(cloudText))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.FileName)
}
