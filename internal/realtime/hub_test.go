package realtime_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/models"
	"github.com/popeskul/pharmacy-messenger/internal/realtime"
	servicemocks "github.com/popeskul/pharmacy-messenger/internal/service/mocks"
)

func startHub(t *testing.T, opts ...realtime.Option) (*realtime.Hub, *metrics.Collector, string) {
	t.Helper()
	collector := metrics.NewCollector(nil)
	hub := realtime.NewHub(collector, zap.NewNop(), opts...)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		_ = hub.Close()
		server.Close()
	})
	return hub, collector, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(realtime.Envelope{Event: event, Data: raw}))
}

func read(t *testing.T, conn *websocket.Conn) realtime.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env realtime.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func joinAdmin(t *testing.T, hub *realtime.Hub, conn *websocket.Conn) {
	t.Helper()
	send(t, conn, models.RealtimeJoinAdmin, nil)
	env := read(t, conn)
	require.Equal(t, models.RealtimeSystemMetrics, env.Event)
	require.Eventually(t, func() bool { return hub.RoomSize(models.AdminRoom) > 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_JoinAdminReceivesMetrics(t *testing.T) {
	hub, collector, url := startHub(t)
	collector.RecordMessageSent()

	conn := dial(t, url)
	send(t, conn, models.RealtimeJoinAdmin, nil)

	env := read(t, conn)
	assert.Equal(t, models.RealtimeSystemMetrics, env.Event)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, int64(1), snap.MessagesSent)
	assert.Equal(t, int64(1), snap.ActiveConnections)
	assert.Equal(t, 1, hub.RoomSize(models.AdminRoom))
}

func TestHub_PublishReachesOnlyRoomMembers(t *testing.T) {
	hub, _, url := startHub(t)

	admin := dial(t, url)
	joinAdmin(t, hub, admin)
	bystander := dial(t, url)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 2 }, time.Second, 10*time.Millisecond)

	viberID := "viber-alice"
	err := hub.Publish(context.Background(), models.AdminRoom, models.RealtimeUserUnsubscribed,
		models.UnsubscribedEvent{CustomerName: "Alice", ViberID: &viberID})
	require.NoError(t, err)

	env := read(t, admin)
	assert.Equal(t, models.RealtimeUserUnsubscribed, env.Event)
	assert.JSONEq(t, `{"customer_name":"Alice","viber_id":"viber-alice"}`, string(env.Data))

	require.NoError(t, bystander.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = bystander.ReadMessage()
	assert.Error(t, err, "non-members get nothing")
}

func TestHub_AdminSendMessageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	admin := servicemocks.NewMockAdminService(ctrl)

	hub, _, url := startHub(t)
	hub.SetAdminHandler(admin)

	req := models.AdminMessageRequest{CustomerViberID: "viber-alice", CustomerID: 7, MessageText: "hi"}
	admin.EXPECT().SendAdminMessage(gomock.Any(), req).Return(nil, errors.New("failed to send message to Viber"))

	sender := dial(t, url)
	joinAdmin(t, hub, sender)
	other := dial(t, url)
	joinAdmin(t, hub, other)

	send(t, sender, models.RealtimeAdminSendMessage, req)

	env := read(t, sender)
	assert.Equal(t, models.RealtimeAdminMessageError, env.Event)
	var payload models.AdminMessageError
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "failed to send message to Viber", payload.Error)
	assert.Equal(t, "viber-alice", payload.CustomerViberID)
	assert.Equal(t, int64(7), payload.CustomerID)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "errors go to the originating connection only")

	send(t, sender, models.RealtimeJoinAdmin, nil)
	assert.Equal(t, models.RealtimeSystemMetrics, read(t, sender).Event, "connection stays open")
}

func TestHub_AdminSendMessageSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	admin := servicemocks.NewMockAdminService(ctrl)

	hub, _, url := startHub(t)
	hub.SetAdminHandler(admin)

	req := models.AdminMessageRequest{CustomerViberID: "viber-alice", CustomerID: 7, MessageText: "ready"}
	admin.EXPECT().SendAdminMessage(gomock.Any(), req).DoAndReturn(
		func(ctx context.Context, r models.AdminMessageRequest) (*models.Message, error) {
			msg := &models.Message{ID: 1, CustomerID: r.CustomerID, SenderType: models.SenderTypeAdmin, MessageText: r.MessageText}
			return msg, hub.Publish(ctx, models.AdminRoom, models.RealtimeNewAdminMessage, models.AdminMessageEvent{
				CustomerID: r.CustomerID, ViberID: r.CustomerViberID, Message: msg,
			})
		})

	conn := dial(t, url)
	joinAdmin(t, hub, conn)
	send(t, conn, models.RealtimeAdminSendMessage, req)

	env := read(t, conn)
	assert.Equal(t, models.RealtimeNewAdminMessage, env.Event)
}

func TestHub_ConnectionAccounting(t *testing.T) {
	hub, collector, url := startHub(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), collector.GetMetrics().ActiveConnections)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return hub.ConnectionCount() == 0 && collector.GetMetrics().ActiveConnections == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	_, _, url := startHub(t, realtime.WithAllowedOrigins([]string{"https://admin.example.com"}))

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type failingBridge struct{}

func (failingBridge) Publish(context.Context, string, []byte) error { return errors.New("redis down") }
func (failingBridge) Start(context.Context, func(string, []byte)) error {
	return nil
}
func (failingBridge) Stop() error { return nil }

func TestHub_BridgeFailureDeliversLocally(t *testing.T) {
	hub, _, url := startHub(t)
	require.NoError(t, hub.UseBridge(context.Background(), failingBridge{}))

	conn := dial(t, url)
	joinAdmin(t, hub, conn)

	require.NoError(t, hub.Publish(context.Background(), models.AdminRoom, models.RealtimeNewSubscriber,
		models.SubscriberEvent{CustomerID: 7, CustomerName: "Alice", ViberID: "viber-alice"}))

	assert.Equal(t, models.RealtimeNewSubscriber, read(t, conn).Event)
}
