package repository

import (
	"context"
	"os"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseChatRepository(t *testing.T, repo ChatRepository) {
	ctx := context.Background()

	messages, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	require.NoError(t, repo.Append(ctx, model.ChatMessage{From: model.FromUser, Message: "áo dưới 200k"}))
	require.NoError(t, repo.Append(ctx, model.ChatMessage{From: model.FromBot, Message: "Try Áo thun basic"}))

	messages, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.FromUser, messages[0].From)
	assert.Equal(t, "áo dưới 200k", messages[0].Message)
	assert.Equal(t, model.FromBot, messages[1].From)

	require.NoError(t, repo.Clear(ctx))
	messages, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMemoryChatRepository(t *testing.T) {
	exerciseChatRepository(t, NewMemoryChatRepository())
}

func TestMemoryChatRepository_LoadReturnsCopy(t *testing.T) {
	repo := NewMemoryChatRepository()
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, model.ChatMessage{From: model.FromUser, Message: "hi"}))

	messages, err := repo.Load(ctx)
	require.NoError(t, err)
	messages[0].Message = "changed"

	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi", again[0].Message)
}

func TestRedisChatRepository(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping Redis transcript test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	key := "test:" + model.TranscriptKey
	require.NoError(t, client.Del(context.Background(), key).Err())

	repo := NewRedisChatRepository(client, key)
	exerciseChatRepository(t, repo)

	// malformed entries are skipped rather than failing the load
	require.NoError(t, client.RPush(context.Background(), key, "not json").Err())
	require.NoError(t, repo.Append(context.Background(), model.ChatMessage{From: model.FromBot, Message: "ok"}))
	messages, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "ok", messages[0].Message)
	require.NoError(t, repo.Clear(context.Background()))
}
