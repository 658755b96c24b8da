package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ChatRepository persists the chat transcript under a single fixed key. The
// transcript is never trimmed; only Clear removes entries.
type ChatRepository interface {
	Load(ctx context.Context) ([]model.ChatMessage, error)
	Append(ctx context.Context, msg model.ChatMessage) error
	Clear(ctx context.Context) error
}

type redisChatRepository struct {
	client *redis.Client
	key    string
}

// NewRedisChatRepository stores the transcript as a Redis list at key
func NewRedisChatRepository(client *redis.Client, key string) ChatRepository {
	if key == "" {
		key = model.TranscriptKey
	}
	return &redisChatRepository{client: client, key: key}
}

func (r *redisChatRepository) Load(ctx context.Context) ([]model.ChatMessage, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		logger.Error("Failed to load chat transcript", err, map[string]interface{}{
			"key": r.key,
		})
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	messages := make([]model.ChatMessage, 0, len(raw))
	for _, entry := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			logger.Warn("Skipping malformed transcript entry", map[string]interface{}{
				"key":   r.key,
				"error": err.Error(),
			})
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *redisChatRepository) Append(ctx context.Context, msg model.ChatMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode transcript entry: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, b).Err(); err != nil {
		logger.Error("Failed to append chat transcript", err, map[string]interface{}{
			"key":  r.key,
			"from": msg.From,
		})
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	return nil
}

func (r *redisChatRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		logger.Error("Failed to clear chat transcript", err, map[string]interface{}{
			"key": r.key,
		})
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}

type memoryChatRepository struct {
	mu       sync.Mutex
	messages []model.ChatMessage
}

// NewMemoryChatRepository keeps the transcript for the life of the process
func NewMemoryChatRepository() ChatRepository {
	return &memoryChatRepository{}
}

func (r *memoryChatRepository) Load(ctx context.Context) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ChatMessage, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

func (r *memoryChatRepository) Append(ctx context.Context, msg model.ChatMessage) error {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	return nil
}

func (r *memoryChatRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
	return nil
}
