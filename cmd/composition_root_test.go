package cmd

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/eventbus"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRoot(t *testing.T, config Config) *CompositionRoot {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	config.JWTSecret = "secret"
	config.HeartbeatInterval = time.Second
	return NewCompositionRoot(config, db, slog.New(slog.DiscardHandler))
}

func TestCompositionRoot_LocalDelivery(t *testing.T) {
	root := newTestRoot(t, Config{})
	defer func() { assert.NoError(t, root.Close()) }()

	fanOut, ok := root.publisher.(*eventbus.FanOut)
	require.True(t, ok)
	assert.Equal(t, 1, fanOut.Len())
	assert.Nil(t, root.subscriber)
	assert.Nil(t, root.kafkaPublisher)

	e, err := root.CreateRouter(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompositionRoot_RelayAndKafka(t *testing.T) {
	root := newTestRoot(t, Config{
		RedisAddr:     "127.0.0.1:6379",
		RedisChannel:  "orders:status",
		KafkaBrokers:  "127.0.0.1:9092",
		KafkaTopic:    "orders.events",
		KafkaProducer: "order-service",
	})
	defer func() { assert.NoError(t, root.Close()) }()

	fanOut, ok := root.publisher.(*eventbus.FanOut)
	require.True(t, ok)
	assert.Equal(t, 2, fanOut.Len(), "relay replaces local delivery, kafka is added")
	assert.NotNil(t, root.subscriber)
	assert.NotNil(t, root.kafkaPublisher)
}

func TestCompositionRoot_StartBackground(t *testing.T) {
	root := newTestRoot(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, root.StartBackground(ctx))
	assert.NoError(t, root.Close())
}

func TestCompositionRoot_ShutdownEndsOpenStreams(t *testing.T) {
	root := newTestRoot(t, Config{})
	defer func() { assert.NoError(t, root.Close()) }()

	e, err := root.CreateRouter(context.Background())
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(e)
	root.ConfigureServer(srv.Config)
	srv.Start()
	defer srv.Close()

	userID := kernel.NewUUID()
	token, err := httpin.NewTokenVerifier("secret").Issue(userID, time.Minute)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/orders/stream?token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected", strings.TrimSpace(line))
	require.Eventually(t, func() bool { return root.broadcaster.UserConnectionCount(userID) == 1 },
		time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Config.Shutdown(ctx), "the stream must not hold shutdown until the timeout")
	assert.Zero(t, root.broadcaster.ConnectionCount())
}
