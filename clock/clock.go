// Package clock provides the monotonic tick source the connection state
// machine consults for idle-deadline checks (spec: "timer source:
// monotonic tick counter and tick-to-milliseconds constant").
//
// This is an out-of-core collaborator: the state machine only ever calls
// Ticks(), never time.Now() directly, so it can be swapped for a fake in
// tests without touching any core file.
package clock

import "time"

// TickMS is the tick-to-millisecond constant (spec §3/§6): state_time and
// the RX/TX timeout constants are both expressed in ticks of this size.
const TickMS = 10

// Source yields a monotonically increasing tick counter.
type Source interface {
	Ticks() int64
}

type realSource struct{ start time.Time }

// Real returns a Source backed by the Go runtime's monotonic clock.
func Real() Source {
	return &realSource{start: time.Now()}
}

func (r *realSource) Ticks() int64 {
	return int64(time.Since(r.start) / (TickMS * time.Millisecond))
}
