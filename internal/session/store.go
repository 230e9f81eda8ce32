package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyerfyer/doc-chatbot/internal/cache"
	"github.com/fyerfyer/doc-chatbot/internal/nlp"
)

const keyPrefix = "session:doc"

// Store 按会话保存当前文档的分析结果
// 每个会话同一时刻只有一个文档，新上传会整体替换旧结果
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

// Option 会话存储配置选项
type Option func(*Store)

// WithTTL 设置会话文档的过期时间，0表示使用缓存默认值
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// NewStore 创建会话存储
func NewStore(c cache.Cache, opts ...Option) *Store {
	s := &Store{cache: c}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load 读取会话的当前文档
// 会话不存在时返回空文档和false，不视为错误
func (s *Store) Load(ctx context.Context, sessionID string) (nlp.DocumentStructure, bool, error) {
	raw, found, err := s.cache.Get(ctx, key(sessionID))
	if err != nil {
		return nlp.DocumentStructure{}, false, fmt.Errorf("failed to load session document: %w", err)
	}
	if !found {
		return nlp.DocumentStructure{}, false, nil
	}

	var doc nlp.DocumentStructure
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nlp.DocumentStructure{}, false, fmt.Errorf("failed to decode session document: %w", err)
	}
	return doc, true, nil
}

// Replace 用新的分析结果整体替换会话文档
func (s *Store) Replace(ctx context.Context, sessionID string, doc nlp.DocumentStructure) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode session document: %w", err)
	}
	if err := s.cache.Set(ctx, key(sessionID), string(data), s.ttl); err != nil {
		return fmt.Errorf("failed to store session document: %w", err)
	}
	return nil
}

// Clear 删除会话文档
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, key(sessionID))
}

func key(sessionID string) string {
	return cache.Key(keyPrefix, sessionID)
}
