/*
Package bridge correlates requests a smartapp sends to its host with the events the host
sends back.

Every request gets a fresh ref. The engine renames its params to the wire convention,
records its redaction flags, hands the envelope to the host transport and returns a Future
settled by the host answer carrying the same ref, or rejected once the timeout elapses.
Host events without a ref are notifications and reach the OnReceive subscribers.
*/
package bridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/shortlink-org/smartapp-bridge/emitter"
	"github.com/shortlink-org/smartapp-bridge/logger"
	"github.com/shortlink-org/smartapp-bridge/protocol"
	"github.com/shortlink-org/smartapp-bridge/redaction"
)

// Engine is the bridge protocol engine bound to one host transport.
type Engine struct {
	transport Transport
	available bool

	cfg           Config
	log           logger.Logger
	meterProvider metric.MeterProvider
	metrics       *metrics
	newToken      func() string

	emitter   *emitter.Emitter[protocol.Event]
	redaction *redaction.Log

	renameParams *atomic.Bool
	logsEnabled  *atomic.Bool

	// renames keeps the naming decision taken at send time for every pending ref.
	mu      sync.Mutex
	renames map[string]bool
}

// New probes transport once and, when the host is there, registers the inbound handler.
// A nil or unavailable transport yields an engine that rejects every request.
func New(transport Transport, opts ...Option) *Engine {
	e := &Engine{
		transport: transport,
		cfg:       DefaultConfig(),
		log:       logger.NewNop(),
		newToken:  uuid.NewString,
		redaction: redaction.New(),
		renames:   map[string]bool{},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.cfg = e.cfg.withDefaults()
	e.metrics = newMetrics(e.log, e.meterProvider)
	e.renameParams = atomic.NewBool(e.cfg.RenameParams)
	e.logsEnabled = atomic.NewBool(e.cfg.LogsEnabled)
	e.emitter = emitter.New[protocol.Event](e.log, emitter.OnExpire(e.expire))

	e.available = transport != nil && transport.Available()
	if !e.available {
		e.log.Error("Bridge ~ No host communication object, cannot send messages to the host")
		return e
	}

	transport.OnInbound(e.handleInbound)

	return e
}

// Available reports the transport state probed at construction.
func (e *Engine) Available() bool {
	return e.available
}

// OnReceive subscribes callback to every host event that carries no ref.
func (e *Engine) OnReceive(callback func(protocol.Event)) {
	e.emitter.On(protocol.ChannelReceive, callback)
}

// EnableRenameParams turns on snake_case/camelCase renaming for bot events.
// Requests already sent keep the decision taken when they were sent.
func (e *Engine) EnableRenameParams() {
	e.renameParams.Store(true)
	e.log.Info("Bridge ~ Enabled renaming event params from camelCase to snake_case and vice versa")
}

// DisableRenameParams turns off renaming for bot events. Client events are always renamed.
func (e *Engine) DisableRenameParams() {
	e.renameParams.Store(false)
	e.log.Info("Bridge ~ Disabled renaming event params from camelCase to snake_case and vice versa")
}

func (e *Engine) RenameParamsEnabled() bool {
	return e.renameParams.Load()
}

// EnableLogs writes outgoing and incoming events to the logger.
func (e *Engine) EnableLogs() {
	e.logsEnabled.Store(true)
}

// DisableLogs stops event logging. Redaction bookkeeping continues.
func (e *Engine) DisableLogs() {
	e.logsEnabled.Store(false)
}

func (e *Engine) LogsEnabled() bool {
	return e.logsEnabled.Load()
}

func (e *Engine) rememberRename(token string, rename bool) {
	e.mu.Lock()
	e.renames[token] = rename
	e.mu.Unlock()
}

// takeRename returns the send-time decision for token, or the current flag
// for notifications and refs that are no longer pending.
func (e *Engine) takeRename(token string) bool {
	e.mu.Lock()
	rename, ok := e.renames[token]
	delete(e.renames, token)
	e.mu.Unlock()

	if ok {
		return rename
	}

	return e.renameParams.Load()
}

func (e *Engine) pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.renames)
}

// expire drops what was kept for a request that was never answered.
func (e *Engine) expire(token string) {
	e.mu.Lock()
	delete(e.renames, token)
	e.mu.Unlock()

	e.redaction.Forget(token)
	e.metrics.recordTimeout(context.Background())
	e.log.Debug("Bridge ~ Request timed out", slog.String("ref", token))
}
