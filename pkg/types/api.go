package types

// CountersResponse is returned by GET /counters.
type CountersResponse struct {
	// Number of synthetic exceptions logged.
	// example: 1
	Exception int64 `json:"exception" example:"1"`
	// Number of warn-level events logged.
	// example: 2
	Warn int64 `json:"warn" example:"2"`
	// Number of info-level events logged.
	// example: 10
	Info int64 `json:"info" example:"10"`
	// Number of debug-level events logged.
	// example: 91
	Debug int64 `json:"debug" example:"91"`
}

// ProducerStatus summarizes one producer for /status.
type ProducerStatus struct {
	// Producer name: exception, warn, info or debug.
	// example: info
	Name string `json:"name" example:"info"`
	// Ticks completed so far.
	// example: 10
	Count int64 `json:"count" example:"10"`
	// Initial delay before the first tick, in milliseconds.
	// example: 1000
	DelayMS int64 `json:"delay_ms" example:"1000"`
	// Repeat interval, in milliseconds.
	// example: 1000
	IntervalMS int64 `json:"interval_ms" example:"1000"`
}

// StatusResponse is returned by GET /status and the generator control endpoints.
type StatusResponse struct {
	// Lifecycle state: running or stopped.
	// example: running
	State string `json:"state" example:"running"`
	// Convenience flag mirroring State.
	Running bool `json:"running"`
	// Unix seconds of the most recent start; omitted when never started.
	// example: 1760601600
	StartedAt int64 `json:"started_at,omitempty" example:"1760601600"`
	// Current counters.
	Counters CountersResponse `json:"counters"`
	// Per-producer detail.
	Producers []ProducerStatus `json:"producers"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: method not allowed
	Error string `json:"error" example:"method not allowed"`
	// HTTP status code.
	// example: 405
	Code int `json:"code" example:"405"`
}
