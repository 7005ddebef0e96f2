// Package generator drives four periodic log producers (exception, warn, info,
// debug) against an injected sink and exposes their counters. It is split into
// small files by concern:
//
//   - generator.go: Generator type, Start/Stop lifecycle, counters.
//   - producer.go: per-producer scheduling loop and tick bodies.
//   - shutdown.go: Shutdown (stop, flush, grace period).
//   - config.go: Config, default schedules; New applies defaults.
//   - types.go: ProducerName, Schedule, Snapshot, State, Counters.
//   - errors.go: error types and helpers (IsSyntheticException, IsLogged, IsSinkFailure).
//   - events.go, eventpub_memory.go: lifecycle events and publishers.
//   - status_report.go: Status projection for the HTTP layer.
//
// Each producer runs in its own goroutine; a producer's ticks never overlap
// (a slow tick makes the ticker drop missed ticks). All producers share one
// cancellation context owned by the Generator.
package generator
