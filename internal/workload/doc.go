// Package workload drives a sim.System from configurable producer and
// consumer endpoints that obey the valid/ready handshake contract.
//
// A Source offers deterministically generated payloads according to a duty
// pattern and holds each offered payload unchanged until the dispatcher
// accepts it. A Sink drains releases according to its own pattern, records
// release order, and verifies that the presented block never changes while
// the consumer is refusing. The Runner ties both to a system, enforces
// sequence-order delivery, and surfaces per-tick events for tracing.
package workload
