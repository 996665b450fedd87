package metrics

import "time"

// Snapshot is the JSON shape served by the metrics endpoint and pushed to
// admin dashboards as system_metrics.
type Snapshot struct {
	WebhookRequests     int64       `json:"webhookRequests"`
	MessagesSent        int64       `json:"messagesSent"`
	DatabaseErrors      int64       `json:"databaseErrors"`
	ViberAPIErrors      int64       `json:"viberApiErrors"`
	RateLimited         int64       `json:"rateLimited"`
	AverageResponseTime float64     `json:"averageResponseTime"`
	TotalResponseTime   float64     `json:"totalResponseTime"`
	PeakMemoryUsage     uint64      `json:"peakMemoryUsage"`
	ActiveConnections   int64       `json:"activeConnections"`
	Timestamp           time.Time   `json:"timestamp"`
	Uptime              int64       `json:"uptime"`
	UptimeFormatted     string      `json:"uptimeFormatted"`
	MemoryUsage         MemoryUsage `json:"memoryUsage"`
}

type MemoryUsage struct {
	Current   uint64          `json:"current"`
	Peak      uint64          `json:"peak"`
	Total     uint64          `json:"total"`
	Formatted FormattedMemory `json:"formatted"`
}

type FormattedMemory struct {
	Current string `json:"current"`
	Peak    string `json:"peak"`
	Total   string `json:"total"`
}
