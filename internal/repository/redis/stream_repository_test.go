package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	redisRepo "github.com/boundary-resolver/internal/repository/redis"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Test connection
	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	// Clean up any existing test streams
	client.Del(ctx, "test:stream:boundary:refresh", "test:stream:boundary:reloaded")

	return client
}

// TestStreamRepository_CreateConsumerGroup tests consumer group creation
func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger)
	ctx := context.Background()

	streamName := "test:stream:boundary:refresh"
	groupName := "test-group"

	// Clean up
	defer func() {
		client.Del(ctx, streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Verify group was created
	groups, err := client.XInfoGroups(ctx, streamName).Result()
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, groupName, groups[0].Name)

	// Creating again should not error (BUSYGROUP handled)
	err = repo.CreateConsumerGroup(ctx, streamName, groupName)
	assert.NoError(t, err)
}

// TestStreamRepository_PublishToStream tests message publishing
func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger)
	ctx := context.Background()

	streamName := "test:stream:boundary:reloaded"

	// Clean up
	defer func() {
		client.Del(ctx, streamName)
	}()

	// Create test event
	eventID := uuid.New()
	event := &domain.BoundaryReloadedEvent{
		EventID:    eventID,
		Generation: 7,
		Layers: []domain.LayerStats{
			{Category: domain.CategoryMunicipality, FeaturesLoaded: 213},
		},
		ReloadedAt: time.Now().UTC(),
	}

	// Publish to stream
	err := repo.PublishToStream(ctx, streamName, event)
	require.NoError(t, err)

	// Verify message was published
	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{streamName, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Len(t, messages[0].Messages, 1)

	// Verify message content
	msg := messages[0].Messages[0]
	dataStr, ok := msg.Values["data"].(string)
	require.True(t, ok)

	var receivedEvent domain.BoundaryReloadedEvent
	err = json.Unmarshal([]byte(dataStr), &receivedEvent)
	require.NoError(t, err)
	assert.Equal(t, eventID, receivedEvent.EventID)
	assert.Equal(t, uint64(7), receivedEvent.Generation)
	require.Len(t, receivedEvent.Layers, 1)
	assert.Equal(t, 213, receivedEvent.Layers[0].FeaturesLoaded)
}

// TestStreamRepository_ConsumeStream tests message consumption
func TestStreamRepository_ConsumeStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	streamName := "test:stream:boundary:refresh"
	groupName := "test-consumer-group"
	consumerName := "test-consumer"

	// Clean up
	defer func() {
		client.Del(context.Background(), streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Publish a test message
	eventID := uuid.New()
	testEvent := &domain.BoundaryRefreshEvent{
		EventID: eventID,
		Which:   "mpr",
		Fetch:   true,
	}

	err = repo.PublishToStream(ctx, streamName, testEvent)
	require.NoError(t, err)

	// Consume messages
	msgChan, err := repo.ConsumeStream(ctx, streamName, groupName, consumerName)
	require.NoError(t, err)

	// Read message from channel
	select {
	case msg := <-msgChan:
		assert.NotEmpty(t, msg.ID)
		
		// Verify message content
		var receivedEvent domain.BoundaryRefreshEvent
		err = json.Unmarshal([]byte(msg.Data), &receivedEvent)
		require.NoError(t, err)
		assert.Equal(t, eventID, receivedEvent.EventID)
		assert.Equal(t, "mpr", receivedEvent.Target())
		assert.True(t, receivedEvent.Fetch)

	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

// TestStreamRepository_AckMessage tests message acknowledgment
func TestStreamRepository_AckMessage(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger)
	ctx := context.Background()

	streamName := "test:stream:boundary:refresh"
	groupName := "test-ack-group"
	consumerName := "test-consumer"

	// Clean up
	defer func() {
		client.Del(ctx, streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Publish a test message
	testEvent := &domain.BoundaryRefreshEvent{EventID: uuid.New()}
	err = repo.PublishToStream(ctx, streamName, testEvent)
	require.NoError(t, err)

	// Read message
	messages, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{streamName, ">"},
		Count:    1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	messageID := messages[0].Messages[0].ID

	// Check pending messages before ACK
	pending, err := client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)

	// Acknowledge message
	err = repo.AckMessage(ctx, streamName, groupName, messageID)
	require.NoError(t, err)

	// Check pending messages after ACK
	pending, err = client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// TestStreamRepository_ConsumeStream_ContextCancellation tests graceful shutdown
func TestStreamRepository_ConsumeStream_ContextCancellation(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger)
	ctx, cancel := context.WithCancel(context.Background())

	streamName := "test:stream:boundary:refresh"
	groupName := "test-cancel-group"
	consumerName := "test-consumer"

	// Clean up
	defer func() {
		client.Del(context.Background(), streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Start consuming
	msgChan, err := repo.ConsumeStream(ctx, streamName, groupName, consumerName)
	require.NoError(t, err)

	// Cancel context after a short delay
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	// Channel should close when context is cancelled
	timeout := time.After(2 * time.Second)
	select {
	case _, ok := <-msgChan:
		if ok {
			// Received a message (ok if we get lucky with timing)
			// Continue to wait for channel close
			select {
			case _, ok := <-msgChan:
				assert.False(t, ok, "Channel should be closed")
			case <-timeout:
				t.Fatal("Channel not closed after context cancellation")
			}
		} else {
			// Channel closed as expected
			assert.False(t, ok)
		}
	case <-timeout:
		t.Fatal("Timeout waiting for channel to close")
	}
}

// TestStreamRepository_ConsumeBatch tests batch reads and batch acknowledgment
func TestStreamRepository_ConsumeBatch(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	streamName := "test:stream:boundary:refresh"
	groupName := "test-batch-group"
	consumerName := "test-consumer"

	defer func() {
		client.Del(ctx, streamName)
	}()

	require.NoError(t, repo.CreateConsumerGroup(ctx, streamName, groupName))

	// Empty stream returns no messages and no error
	msgs, err := repo.ConsumeBatch(ctx, streamName, groupName, consumerName, 10, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.PublishToStream(ctx, streamName, &domain.BoundaryRefreshEvent{EventID: uuid.New()}))
	}
	// Message without data field is dropped
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{"other": "x"},
	}).Err())

	msgs, err = repo.ConsumeBatch(ctx, streamName, groupName, consumerName, 10, 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	pending, err := client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending.Count)

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	require.NoError(t, repo.AckMessages(ctx, streamName, groupName, ids))
	require.NoError(t, repo.AckMessages(ctx, streamName, groupName, nil))

	pending, err = client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}
