/*
Package redaction remembers, per request, which payloads must be masked before they reach
diagnostic logs.

Both flags are recorded at send time. The inbound flag is consumed when the response is logged.
*/
package redaction

import (
	"sync"

	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// Mask replaces hidden payloads in logs.
const Mask = "***"

type entry struct {
	hideOutbound bool
	hideInbound  bool
}

// Log is the per-request redaction ledger.
type Log struct {
	mu      sync.Mutex
	entries map[string]entry
}

func New() *Log {
	return &Log{entries: map[string]entry{}}
}

// RecordOutboundFlags stores the flags of the request identified by token.
func (l *Log) RecordOutboundFlags(token string, hideOutbound, hideInbound bool) {
	l.mu.Lock()
	l.entries[token] = entry{hideOutbound: hideOutbound, hideInbound: hideInbound}
	l.mu.Unlock()
}

// ConsumeInboundFlag returns the recorded inbound flag and drops the entry.
// Unknown tokens report false.
func (l *Log) ConsumeInboundFlag(token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[token]
	if !ok {
		return false
	}

	delete(l.entries, token)

	return e.hideInbound
}

// Forget drops the entry of a request that will never be answered.
func (l *Log) Forget(token string) {
	l.mu.Lock()
	delete(l.entries, token)
	l.mu.Unlock()
}

// Len is the number of requests still tracked.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// DescribeOutbound returns a copy of envelope fit for logging.
// The payload is masked when the flags recorded for envelope.Ref hide it.
func (l *Log) DescribeOutbound(envelope protocol.Outbound) protocol.Outbound {
	l.mu.Lock()
	e := l.entries[envelope.Ref]
	l.mu.Unlock()

	if e.hideOutbound {
		envelope.Payload = Mask
	}

	return envelope
}

// LoggableInbound is an inbound envelope fit for logging.
type LoggableInbound struct {
	Ref   string `json:"ref,omitempty"`
	Data  any    `json:"data"`
	Files []any  `json:"files,omitempty"`
}

// DescribeInbound consumes the flag of token and masks data when it was set.
func (l *Log) DescribeInbound(raw protocol.Inbound, token string) LoggableInbound {
	event := LoggableInbound{Ref: raw.Ref, Data: raw.Data, Files: raw.Files}

	if l.ConsumeInboundFlag(token) {
		event.Data = Mask
	}

	return event
}
