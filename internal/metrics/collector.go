// Package metrics tracks service counters and webhook timing, exposing them
// both as a JSON snapshot and as Prometheus collectors.
package metrics

import (
	"math"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pharmacy"

// MemStatsFunc reports current heap usage and the heap size obtained from the OS.
type MemStatsFunc func() (current, total uint64)

// Collector is safe for concurrent use.
type Collector struct {
	messagesSent      atomic.Int64
	databaseErrors    atomic.Int64
	viberAPIErrors    atomic.Int64
	rateLimited       atomic.Int64
	activeConnections atomic.Int64

	mu                sync.Mutex
	webhookRequests   int64
	totalResponseTime float64
	peakMemory        uint64

	startTime time.Time
	now       func() time.Time
	memStats  MemStatsFunc

	prom promCollectors
}

type promCollectors struct {
	webhookRequests   prometheus.Counter
	webhookDuration   prometheus.Histogram
	messagesSent      prometheus.Counter
	databaseErrors    prometheus.Counter
	viberAPIErrors    prometheus.Counter
	rateLimited       prometheus.Counter
	activeConnections prometheus.Gauge
}

type Option func(*Collector)

func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

func WithMemStats(fn MemStatsFunc) Option {
	return func(c *Collector) {
		c.memStats = fn
	}
}

// NewCollector creates a collector and registers its Prometheus series on reg.
// A nil reg keeps the series unregistered.
func NewCollector(reg prometheus.Registerer, opts ...Option) *Collector {
	c := &Collector{
		now:      time.Now,
		memStats: runtimeMemStats,
		prom:     newPromCollectors(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startTime = c.now()

	if reg != nil {
		reg.MustRegister(
			c.prom.webhookRequests,
			c.prom.webhookDuration,
			c.prom.messagesSent,
			c.prom.databaseErrors,
			c.prom.viberAPIErrors,
			c.prom.rateLimited,
			c.prom.activeConnections,
		)
	}

	return c
}

func newPromCollectors() promCollectors {
	return promCollectors{
		webhookRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_requests_total",
			Help:      "Total number of webhook requests received.",
		}),
		webhookDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "webhook_request_duration_seconds",
			Help:      "Duration of webhook request handling in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Total number of outbound messages accepted by Viber.",
		}),
		databaseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_errors_total",
			Help:      "Total number of failed store operations.",
		}),
		viberAPIErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viber_api_errors_total",
			Help:      "Total number of failed outbound dispatches.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of webhook events rejected by the sender rate limit.",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Current number of realtime admin connections.",
		}),
	}
}

func runtimeMemStats() (uint64, uint64) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc, ms.HeapSys
}

// RecordWebhookRequest counts a webhook request and adds its duration to the
// running total.
func (c *Collector) RecordWebhookRequest(d time.Duration) {
	if d < 0 {
		d = 0
	}

	c.mu.Lock()
	c.webhookRequests++
	c.totalResponseTime += float64(d) / float64(time.Millisecond)
	c.mu.Unlock()

	c.prom.webhookRequests.Inc()
	c.prom.webhookDuration.Observe(d.Seconds())
}

func (c *Collector) RecordMessageSent() {
	c.messagesSent.Add(1)
	c.prom.messagesSent.Inc()
}

func (c *Collector) RecordDatabaseError() {
	c.databaseErrors.Add(1)
	c.prom.databaseErrors.Inc()
}

func (c *Collector) RecordViberAPIError() {
	c.viberAPIErrors.Add(1)
	c.prom.viberAPIErrors.Inc()
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Add(1)
	c.prom.rateLimited.Inc()
}

func (c *Collector) ConnectionOpened() {
	c.activeConnections.Add(1)
	c.prom.activeConnections.Inc()
}

func (c *Collector) ConnectionClosed() {
	c.activeConnections.Add(-1)
	c.prom.activeConnections.Dec()
}

// GetMetrics returns a point-in-time snapshot. Reading a snapshot also updates
// the peak memory figure.
func (c *Collector) GetMetrics() Snapshot {
	current, total := c.memStats()
	now := c.now()

	c.mu.Lock()
	if current > c.peakMemory {
		c.peakMemory = current
	}
	requests := c.webhookRequests
	totalTime := c.totalResponseTime
	peak := c.peakMemory
	c.mu.Unlock()

	var average float64
	if requests > 0 {
		average = totalTime / float64(requests)
	}

	uptime := now.Sub(c.startTime)
	if uptime < 0 {
		uptime = 0
	}

	return Snapshot{
		WebhookRequests:     requests,
		MessagesSent:        c.messagesSent.Load(),
		DatabaseErrors:      c.databaseErrors.Load(),
		ViberAPIErrors:      c.viberAPIErrors.Load(),
		RateLimited:         c.rateLimited.Load(),
		AverageResponseTime: average,
		TotalResponseTime:   totalTime,
		PeakMemoryUsage:     peak,
		ActiveConnections:   c.activeConnections.Load(),
		Timestamp:           now.UTC(),
		Uptime:              int64(uptime / time.Second),
		UptimeFormatted:     FormatUptime(uptime),
		MemoryUsage: MemoryUsage{
			Current: current,
			Peak:    peak,
			Total:   total,
			Formatted: FormattedMemory{
				Current: FormatBytes(current),
				Peak:    FormatBytes(peak),
				Total:   FormatBytes(total),
			},
		},
	}
}

// FormatUptime renders d as "Xd Yh Zm", "Yh Zm" or "Zm Ss" depending on its
// magnitude.
func FormatUptime(d time.Duration) string {
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return strconv.FormatInt(days, 10) + "d " + strconv.FormatInt(hours%24, 10) + "h " +
			strconv.FormatInt(minutes%60, 10) + "m"
	case hours > 0:
		return strconv.FormatInt(hours, 10) + "h " + strconv.FormatInt(minutes%60, 10) + "m"
	default:
		return strconv.FormatInt(minutes, 10) + "m " + strconv.FormatInt(seconds%60, 10) + "s"
	}
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders a byte count with 1024-based units, at most two
// decimals and no trailing zeros.
func FormatBytes(b uint64) string {
	if b == 0 {
		return "0 Bytes"
	}

	i := 0
	for threshold := uint64(1024); b >= threshold && i < len(byteUnits)-1; threshold *= 1024 {
		i++
	}

	value := float64(b) / math.Pow(1024, float64(i))
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[i]
}
