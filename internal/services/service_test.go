package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/fyerfyer/doc-chatbot/internal/cache"
	"github.com/fyerfyer/doc-chatbot/internal/database"
	"github.com/fyerfyer/doc-chatbot/internal/nlp"
	"github.com/fyerfyer/doc-chatbot/internal/repository"
	"github.com/fyerfyer/doc-chatbot/internal/responder"
	"github.com/fyerfyer/doc-chatbot/internal/session"
	"github.com/fyerfyer/doc-chatbot/pkg/storage"
	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const cloudText = "Cloud computing is a technology that enables remote access to computing resources. " +
	"It provides scalable and flexible solutions for businesses. " +
	"Many companies are adopting cloud computing for their operations."

type testEnv struct {
	db       *gorm.DB
	storage  storage.Storage
	sessions *session.Store
	docs     *DocumentService
	chat     *ChatService
}

func setupTestEnv(t *testing.T, docOpts ...DocumentOption) *testEnv {
	t.Helper()

	dbName := fmt.Sprintf("file:memdb_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	c, err := cache.NewMemoryCache(cache.DefaultConfig())
	require.NoError(t, err)
	sessions := session.NewStore(c)

	res, err := nlp.NewResources()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	opts := append([]DocumentOption{
		WithLogger(logger),
		WithDocumentRepository(repository.NewDocumentRepositoryWithDB(db)),
	}, docOpts...)
	docs := NewDocumentService(store, nlp.NewTextAnalyzer(res), sessions, opts...)
	require.NoError(t, docs.Init())

	chat := NewChatService(sessions, nlp.NewQueryAnalyzer(res), responder.NewComposer(),
		WithChatLogger(logger),
		WithChatRepository(repository.NewChatRepositoryWithDB(db)),
	)

	return &testEnv{db: db, storage: store, sessions: sessions, docs: docs, chat: chat}
}

// buildPDF 使用gofpdf生成包含指定文本的PDF
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	if text != "" {
		pdf.MultiCell(0, 10, text, "", "", false)
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func (e *testEnv) upload(t *testing.T, sessionID, filename string, data []byte) error {
	t.Helper()
	_, err := e.docs.Upload(context.Background(), sessionID, filename, int64(len(data)), bytes.NewReader(data))
	return err
}
