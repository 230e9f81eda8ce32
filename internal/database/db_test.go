package database

import (
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSetup_SQLiteFile(t *testing.T) {
	original := DB
	defer func() { DB = original }()

	cfg := DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "nested", "chatbot.db")

	require.NoError(t, Setup(cfg, quietLogger()))
	defer Close()

	db := MustDB()
	assert.True(t, db.Migrator().HasTable("documents"))
	assert.True(t, db.Migrator().HasTable("chat_messages"))
	assert.FileExists(t, cfg.DSN)
}

func TestSetup_InMemory(t *testing.T) {
	original := DB
	defer func() { DB = original }()

	cfg := DefaultConfig()
	cfg.DSN = fmt.Sprintf("file:memdb_setup_%d?mode=memory&cache=shared", time.Now().UnixNano())

	require.NoError(t, Setup(cfg, quietLogger()))
	assert.NoError(t, Close())
}

func TestSetup_UnsupportedType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = "oracle"
	assert.Error(t, Setup(cfg, quietLogger()))
}

func TestMustDB_Panics(t *testing.T) {
	original := DB
	defer func() { DB = original }()

	DB = nil
	assert.PanicsWithValue(t, ErrNotInitialized, func() { MustDB() })
	assert.NoError(t, Close())
}

func TestOpen_ReturnsMigratedHandle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DSN = fmt.Sprintf("file:memdb_open_%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := Open(cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.True(t, db.Migrator().HasTable("documents"))
	assert.True(t, db.Migrator().HasTable("chat_messages"))
}

func TestSQLiteDSN(t *testing.T) {
	cfg := DefaultConfig()

	cfg.DSN = "data/docchat.db"
	assert.Equal(t, "data/docchat.db?_busy_timeout=5000&_journal_mode=WAL", sqliteDSN(cfg))

	cfg.BusyTimeout = 0
	assert.Equal(t, "data/docchat.db?_busy_timeout=5000&_journal_mode=WAL", sqliteDSN(cfg))

	cfg.DSN = "data/docchat.db?_foreign_keys=on"
	assert.Equal(t, cfg.DSN, sqliteDSN(cfg))

	for _, dsn := range []string{":memory:", "file:memdb_x?mode=memory&cache=shared"} {
		cfg.DSN = dsn
		assert.True(t, isMemoryDSN(dsn))
		assert.Equal(t, dsn, sqliteDSN(cfg))
	}
}
