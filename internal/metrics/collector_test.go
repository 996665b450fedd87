package metrics_test

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in       uint64
		expected string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
		{5 * 1099511627776, "5120 GB"},
		{1234567, "1.18 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, metrics.FormatBytes(tt.in))
		})
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "0m 0s"},
		{59 * time.Second, "0m 59s"},
		{61*time.Second + 900*time.Millisecond, "1m 1s"},
		{time.Hour + 5*time.Minute + 7*time.Second, "1h 5m"},
		{26*time.Hour + 3*time.Minute, "1d 2h 3m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, metrics.FormatUptime(tt.in))
		})
	}
}

func TestCollector_GetMetrics(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	heap := []uint64{2048, 4096, 1024}
	call := 0

	c := metrics.NewCollector(nil,
		metrics.WithClock(func() time.Time { return now }),
		metrics.WithMemStats(func() (uint64, uint64) {
			v := heap[call]
			call++
			return v, 8 << 20
		}),
	)

	snap := c.GetMetrics()
	assert.Zero(t, snap.WebhookRequests)
	assert.Zero(t, snap.AverageResponseTime)
	assert.Equal(t, "0m 0s", snap.UptimeFormatted)

	c.RecordWebhookRequest(100 * time.Millisecond)
	c.RecordWebhookRequest(300 * time.Millisecond)
	c.RecordMessageSent()
	c.RecordDatabaseError()
	c.RecordViberAPIError()
	c.RecordViberAPIError()
	c.RecordRateLimited()
	c.ConnectionOpened()
	c.ConnectionOpened()
	c.ConnectionClosed()

	now = start.Add(90 * time.Second)
	snap = c.GetMetrics()

	assert.Equal(t, int64(2), snap.WebhookRequests)
	assert.Equal(t, int64(1), snap.MessagesSent)
	assert.Equal(t, int64(1), snap.DatabaseErrors)
	assert.Equal(t, int64(2), snap.ViberAPIErrors)
	assert.Equal(t, int64(1), snap.RateLimited)
	assert.Equal(t, int64(1), snap.ActiveConnections)
	assert.InDelta(t, 400.0, snap.TotalResponseTime, 0.001)
	assert.InDelta(t, 200.0, snap.AverageResponseTime, 0.001)
	assert.Equal(t, int64(90), snap.Uptime)
	assert.Equal(t, "1m 30s", snap.UptimeFormatted)
	assert.Equal(t, uint64(4096), snap.MemoryUsage.Peak)
	assert.Equal(t, "4 KB", snap.MemoryUsage.Formatted.Current)
	assert.Equal(t, "8 MB", snap.MemoryUsage.Formatted.Total)

	snap = c.GetMetrics()
	assert.Equal(t, uint64(1024), snap.MemoryUsage.Current)
	assert.Equal(t, uint64(4096), snap.MemoryUsage.Peak, "peak never decreases")
	assert.Equal(t, uint64(4096), snap.PeakMemoryUsage)
}

func TestCollector_SnapshotJSONNames(t *testing.T) {
	c := metrics.NewCollector(nil, metrics.WithMemStats(func() (uint64, uint64) { return 1, 2 }))

	raw, err := json.Marshal(c.GetMetrics())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"webhookRequests", "messagesSent", "databaseErrors", "viberApiErrors",
		"averageResponseTime", "totalResponseTime", "timestamp", "uptime", "uptimeFormatted", "memoryUsage",
	} {
		assert.Contains(t, decoded, key)
	}
	memory, ok := decoded["memoryUsage"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, memory, "formatted")
}

func TestCollector_PrometheusMirror(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordMessageSent()
	c.RecordMessageSent()
	c.RecordDatabaseError()
	c.RecordWebhookRequest(10 * time.Millisecond)
	c.ConnectionOpened()

	expected := `
# HELP pharmacy_messages_sent_total Total number of outbound messages accepted by Viber.
# TYPE pharmacy_messages_sent_total counter
pharmacy_messages_sent_total 2
# HELP pharmacy_database_errors_total Total number of failed store operations.
# TYPE pharmacy_database_errors_total counter
pharmacy_database_errors_total 1
# HELP pharmacy_webhook_requests_total Total number of webhook requests received.
# TYPE pharmacy_webhook_requests_total counter
pharmacy_webhook_requests_total 1
# HELP pharmacy_active_connections Current number of realtime admin connections.
# TYPE pharmacy_active_connections gauge
pharmacy_active_connections 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"pharmacy_messages_sent_total",
		"pharmacy_database_errors_total",
		"pharmacy_webhook_requests_total",
		"pharmacy_active_connections",
	)
	assert.NoError(t, err)
}

func TestCollector_ConcurrentUse(t *testing.T) {
	c := metrics.NewCollector(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordWebhookRequest(time.Millisecond)
				c.RecordMessageSent()
				_ = c.GetMetrics()
			}
		}()
	}
	wg.Wait()

	snap := c.GetMetrics()
	assert.Equal(t, int64(5000), snap.WebhookRequests)
	assert.Equal(t, int64(5000), snap.MessagesSent)
	assert.InDelta(t, 1.0, snap.AverageResponseTime, 0.0001)
}
