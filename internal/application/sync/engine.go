// Package sync implements the clipboard synchronization engine: the
// connection-mode and power-state machines, the send and receive pipelines,
// deduplication, rate limiting, optional encryption, and the smart
// auto-receive policy.
//
// The engine is a single logical actor. One goroutine (the Run loop) owns
// all engine state. External inputs (push events, UI visibility, power
// signals, user copy reports) are funneled into the loop through a channel
// of closures, so no internal locking is needed beyond "one actor,
// sequential steps". Results computed off-loop (hashing of large payloads,
// repository calls) re-enter the loop the same way and are discarded if the
// engine was closed while they were in flight.
package sync

import (
	"context"
	stdsync "sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
	"github.com/ghostcopy/ghostd/internal/infrastructure/crypto"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
	"github.com/ghostcopy/ghostd/internal/infrastructure/tracing"
)

const (
	// actionBuffer sizes the channel carrying external inputs into the
	// loop.
	actionBuffer = 64

	// seenCacheSize bounds the LRU of recently seen item IDs that
	// absorbs at-least-once push redelivery.
	seenCacheSize = 256

	// offloadThreshold is the payload size above which fingerprinting
	// moves to a worker goroutine instead of running on the loop.
	offloadThreshold = 1 << 20 // 1MB
)

// Config wires the engine to its collaborators and timing knobs.
// Repository, Clipboard, Settings, and Notifier are required; the rest are
// optional.
type Config struct {
	OwnerID    string
	DeviceType clip.DeviceType
	DeviceName string

	MonitorInterval   time.Duration // local clipboard poll, default 5s
	PollInterval      time.Duration // remote polling fallback, default 5m
	InactivityCheck   time.Duration // idle-check tick, default 2m
	InactivityTimeout time.Duration // hidden+idle before Polling, default 15m
	RateLimitInterval time.Duration // min spacing between sends, default 500ms
	DebounceInterval  time.Duration // receive coalescing window, default 500ms

	Repository   ports.Repository
	Push         ports.PushChannel // nil disables push; the engine stays on polling
	Clipboard    ports.LocalClipboard
	Settings     ports.SettingsStore
	Scanner      ports.SecurityScanner
	Notifier     ports.NotificationSink
	Webhook      ports.WebhookSender
	Vault        ports.VaultAppender
	Preprocessor ports.Preprocessor
	Gateway      *crypto.Gateway

	Clock  clockwork.Clock
	Logger *logging.Logger
	Tracer *tracing.Tracer
}

// Validate checks required collaborators and identity.
func (c *Config) Validate() error {
	if c.OwnerID == "" {
		return gerrors.ErrOwnerIDRequired
	}
	if c.DeviceName == "" {
		return gerrors.ErrDeviceNameRequired
	}
	if c.Repository == nil {
		return gerrors.NewError(gerrors.CodeConfig, "repository is required", nil)
	}
	if c.Clipboard == nil {
		return gerrors.NewError(gerrors.CodeConfig, "clipboard is required", nil)
	}
	if c.Settings == nil {
		return gerrors.NewError(gerrors.CodeConfig, "settings store is required", nil)
	}
	if c.Notifier == nil {
		return gerrors.NewError(gerrors.CodeConfig, "notification sink is required", nil)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.MonitorInterval <= 0 {
		c.MonitorInterval = 5 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Minute
	}
	if c.InactivityCheck <= 0 {
		c.InactivityCheck = 2 * time.Minute
	}
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = 15 * time.Minute
	}
	if c.RateLimitInterval <= 0 {
		c.RateLimitInterval = 500 * time.Millisecond
	}
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = 500 * time.Millisecond
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = logging.Default()
	}
	if c.Tracer == nil {
		c.Tracer = tracing.Default()
	}
}

// Engine is the clipboard synchronization engine.
type Engine struct {
	cfg    Config
	clock  clockwork.Clock
	logger *logging.Logger
	tracer *tracing.Tracer

	actions  chan func()
	stop     chan struct{}
	stopOnce stdsync.Once
	done     chan struct{}
	started  atomic.Bool
	closed   atomic.Bool
	runCtx   context.Context

	// Loop-owned state. Only the Run goroutine touches these.
	mode       *modeController
	power      *powerTracker
	dedup      *deduplicator
	limiter    *rateLimiter
	seen       *lru.Cache[string, struct{}]
	sub        ports.Subscription
	lastSeenID string

	pending   *clip.Item
	debounce  clockwork.Timer
	debounceC <-chan time.Time

	monitor     clockwork.Ticker
	monitorC    <-chan time.Time
	inactivity  clockwork.Ticker
	inactivityC <-chan time.Time
	polling     clockwork.Ticker
	pollingC    <-chan time.Time

	uiVisible      bool
	hiddenAt       time.Time
	lastActivity   time.Time
	lastManualCopy time.Time

	sendInFlight  bool
	applyInFlight bool
	pollInFlight  bool

	observers *observerRegistry
	counters  counters
	startTime time.Time
	curMode   atomic.Value // Mode
	curPower  atomic.Value // PowerState
}

// New creates an Engine. Invalid configuration (missing owner id, device
// name, or a required collaborator) is the only synchronous error the
// engine ever returns to callers.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	seen, err := lru.New[string, struct{}](seenCacheSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		clock:     cfg.Clock,
		logger:    cfg.Logger.With("component", "sync-engine", "device", cfg.DeviceName),
		tracer:    cfg.Tracer,
		actions:   make(chan func(), actionBuffer),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		power:     newPowerTracker(),
		dedup:     newDeduplicator(),
		limiter:   newRateLimiter(cfg.Clock, cfg.RateLimitInterval),
		seen:      seen,
		uiVisible: true,
		observers: newObserverRegistry(),
		// Written here, before the engine escapes the constructor, so
		// Stats never races the loop goroutine over it.
		startTime: cfg.Clock.Now(),
	}
	e.mode = newModeController(modeHooks{
		enterRealtime: e.enterRealtime,
		enterPolling:  e.enterPolling,
		enterPaused:   e.enterPaused,
	})
	e.curMode.Store(ModeRealtime)
	e.curPower.Store(PowerAwake)
	return e, nil
}

// Run starts the engine loop and blocks until ctx is cancelled or Close is
// called. It may be called at most once.
func (e *Engine) Run(ctx context.Context) error {
	if e.closed.Load() {
		return gerrors.ErrEngineClosed
	}
	if !e.started.CompareAndSwap(false, true) {
		return gerrors.NewError(gerrors.CodeConfig, "engine already started", nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.runCtx = ctx

	e.lastActivity = e.clock.Now()

	e.logger.Info("sync engine starting", "owner_id", e.cfg.OwnerID, "device_type", e.cfg.DeviceType)

	e.initializeState()

	e.inactivity = e.clock.NewTicker(e.cfg.InactivityCheck)
	e.inactivityC = e.inactivity.Chan()

	if e.cfg.Settings.AutoSendEnabled() {
		e.startMonitor()
	}
	e.primeLastSeen()
	e.setMode(ModeRealtime)

	defer func() {
		e.shutdown()
		close(e.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.stop:
			return nil
		case fn := <-e.actions:
			fn()
		case <-e.monitorC:
			e.handleMonitorTick()
		case <-e.inactivityC:
			e.handleInactivityTick()
		case <-e.pollingC:
			e.handlePollTick()
		case <-e.debounceC:
			e.handleDebounceFire()
		}
	}
}

// Close shuts the engine down: all timers stop, the push subscription is
// cancelled, observer registrations are cleared, and in-flight best-effort
// work is abandoned. Safe to call more than once; returns once the loop
// has exited.
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.signalStop()
	if e.started.Load() {
		<-e.done
	}
}

// signalStop closes the stop channel exactly once. Both Close and the
// loop's own exit path go through here so that post never blocks past the
// last select iteration, whichever side ended the run.
func (e *Engine) signalStop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// shutdown runs on the loop goroutine as Run exits. The stop channel must
// be closed before unsubscribe: the push transport's Cancel waits for its
// reader goroutine, and that reader may be parked inside post waiting for
// a loop that no longer drains.
func (e *Engine) shutdown() {
	e.closed.Store(true)
	e.signalStop()
	e.stopMonitor()
	e.stopPolling()
	if e.inactivity != nil {
		e.inactivity.Stop()
		e.inactivity = nil
		e.inactivityC = nil
	}
	e.cancelDebounce()
	e.unsubscribe()
	e.observers.clear()
	e.logger.Info("sync engine stopped")
}

// post schedules fn onto the loop goroutine. Returns false if the engine
// is closed; the closure is then dropped, which is how asynchronously
// delivered results are prevented from mutating disposed state.
func (e *Engine) post(fn func()) bool {
	if e.closed.Load() {
		return false
	}
	select {
	case e.actions <- fn:
		return true
	case <-e.done:
		return false
	case <-e.stop:
		return false
	}
}

// --- External API (safe from any goroutine) ---

// NotifyUIShown reports that the UI became visible.
func (e *Engine) NotifyUIShown() {
	e.post(func() { e.handleUIVisibility(true) })
}

// NotifyUIHidden reports that the UI was hidden or backgrounded.
func (e *Engine) NotifyUIHidden() {
	e.post(func() { e.handleUIVisibility(false) })
}

// ReportLocalCopy reports a user-initiated local copy action. This is the
// activity signal that the smart auto-receive policy measures staleness
// against.
func (e *Engine) ReportLocalCopy() {
	e.post(func() {
		now := e.clock.Now()
		e.lastManualCopy = now
		e.markActivity()
	})
}

// SignalPower delivers one of the four OS power signals.
func (e *Engine) SignalPower(sig PowerSignal) {
	e.post(func() { e.handlePowerSignal(sig) })
}

// SubscribeItems registers an observer notified when items are sent or
// applied. The returned function unsubscribes.
func (e *Engine) SubscribeItems(fn ItemObserver) func() {
	return e.observers.subscribe(fn)
}

// Stats returns a snapshot of engine counters and state.
func (e *Engine) Stats() Stats {
	s := e.counters.snapshot()
	s.Mode = e.curMode.Load().(Mode)
	s.Power = e.curPower.Load().(PowerState)
	s.StartTime = e.startTime
	return s
}

// Mode returns the current connection mode.
func (e *Engine) Mode() Mode {
	return e.curMode.Load().(Mode)
}

// Power returns the current power state.
func (e *Engine) Power() PowerState {
	return e.curPower.Load().(PowerState)
}

// --- Mode and power handling (loop goroutine only) ---

// setMode requests a transition. With no push channel configured, Realtime
// degrades to Polling so that exactly one receive transport stays live.
func (e *Engine) setMode(m Mode) {
	if m == ModeRealtime && e.cfg.Push == nil {
		m = ModePolling
	}
	from := e.mode.current()
	if e.mode.set(m) {
		e.curMode.Store(e.mode.current())
		logging.LogModeChange(e.runCtx, e.logger, string(from), string(e.mode.current()))
	}
}

func (e *Engine) enterRealtime() {
	e.stopPolling()
	e.resubscribe()
}

func (e *Engine) enterPolling() {
	e.unsubscribe()
	e.startPolling()
}

func (e *Engine) enterPaused() {
	e.unsubscribe()
	e.stopPolling()
	e.stopMonitor()
}

func (e *Engine) resubscribe() {
	e.unsubscribe()
	sub, err := e.cfg.Push.Subscribe(e.runCtx, e.cfg.OwnerID, e.onPushEvent)
	if err != nil {
		e.logger.Warn("push subscribe failed, falling back to polling", "error", err)
		e.setMode(ModePolling)
		return
	}
	e.sub = sub
}

func (e *Engine) unsubscribe() {
	if e.sub != nil {
		e.sub.Cancel()
		e.sub = nil
	}
}

// onPushEvent runs on the transport's goroutine and re-enters the loop.
func (e *Engine) onPushEvent(ev ports.PushEvent) {
	e.post(func() { e.handleRemoteItem(ev.Item) })
}

func (e *Engine) handlePowerSignal(sig PowerSignal) {
	from := e.power.current()
	state, changed := e.power.reduce(sig)
	if !changed {
		return
	}
	e.curPower.Store(state)
	logging.LogPowerChange(e.runCtx, e.logger, string(from), string(state))

	switch state {
	case PowerSleeping, PowerLocked:
		e.setMode(ModePaused)
	case PowerAwake:
		// Always back to realtime: a human most likely just became
		// active, whatever mode preceded the sleep.
		e.setMode(ModeRealtime)
		if e.cfg.Settings.AutoSendEnabled() {
			e.startMonitor()
		}
	}
}

func (e *Engine) handleUIVisibility(visible bool) {
	if e.uiVisible == visible {
		return
	}
	e.uiVisible = visible
	if visible {
		if e.mode.current() == ModePolling && e.power.awake() {
			e.setMode(ModeRealtime)
		}
	} else {
		e.hiddenAt = e.clock.Now()
	}
}

func (e *Engine) handleInactivityTick() {
	if !e.power.awake() || e.mode.current() != ModeRealtime || e.uiVisible {
		return
	}
	now := e.clock.Now()
	if e.hiddenAt.IsZero() || now.Sub(e.hiddenAt) < e.cfg.InactivityTimeout {
		return
	}
	if now.Sub(e.lastActivity) < e.cfg.InactivityTimeout {
		return
	}
	e.setMode(ModePolling)
}

// markActivity records local clipboard activity and promotes Polling back
// to Realtime.
func (e *Engine) markActivity() {
	e.lastActivity = e.clock.Now()
	if e.mode.current() == ModePolling && e.power.awake() {
		e.setMode(ModeRealtime)
	}
}

// --- Timer management ---

func (e *Engine) startMonitor() {
	if e.monitor != nil {
		return
	}
	e.monitor = e.clock.NewTicker(e.cfg.MonitorInterval)
	e.monitorC = e.monitor.Chan()
}

func (e *Engine) stopMonitor() {
	if e.monitor == nil {
		return
	}
	e.monitor.Stop()
	e.monitor = nil
	e.monitorC = nil
}

func (e *Engine) startPolling() {
	if e.polling != nil {
		return
	}
	e.polling = e.clock.NewTicker(e.cfg.PollInterval)
	e.pollingC = e.polling.Chan()
}

func (e *Engine) stopPolling() {
	if e.polling == nil {
		return
	}
	e.polling.Stop()
	e.polling = nil
	e.pollingC = nil
}

func (e *Engine) cancelDebounce() {
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
		e.debounceC = nil
	}
	e.pending = nil
}

// initializeState seeds the monitor slot with the current clipboard so the
// first tick does not re-send content that predates the engine.
func (e *Engine) initializeState() {
	content, err := e.cfg.Clipboard.Read(e.runCtx)
	if err != nil || content.Empty {
		return
	}
	if payload := canonicalPayload(content); len(payload) > 0 {
		e.dedup.observeLocal(clip.Fingerprint(payload))
	}
}

// primeLastSeen records the newest stored item id at startup so the first
// polling tick does not replay history.
func (e *Engine) primeLastSeen() {
	go func() {
		items, err := e.cfg.Repository.GetHistory(e.runCtx, 1)
		if err != nil || len(items) == 0 {
			return
		}
		id := items[0].ID
		e.post(func() {
			if e.lastSeenID == "" {
				e.lastSeenID = id
			}
		})
	}()
}
