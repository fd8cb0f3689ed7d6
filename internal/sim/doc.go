// Package sim implements the cycle-accurate pipeline core: a round-robin
// dispatcher, N fixed-latency transform lanes, a sequence-ordered
// reassembler, and the free-running counters, wired into a single System
// driven one tick at a time.
//
// The model is synchronous and lock-step. Every Tick evaluates all transfer
// and readiness decisions against the state the tick began with, then
// commits the next state atomically before returning. Readiness signals are
// pure functions of state and never depend on the current tick's payload,
// so the valid/ready handshake on both external links is free of
// combinational cycles.
//
// Construction parameters (lane count, lane depth, payload and counter
// widths) are fixed at New time and never runtime mutable. The only
// recovery operation is Reset, which synchronously discards all in-flight
// blocks and returns every counter to zero.
package sim
