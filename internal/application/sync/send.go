package sync

import (
	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
	"github.com/ghostcopy/ghostd/internal/infrastructure/tracing"
)

// handleMonitorTick drives the outgoing pipeline: read and classify the
// local clipboard, fingerprint it, then dedup → rate-limit → security scan
// → preprocess → dedup-vs-last-sent → encrypt → persist → side effects.
// Any step can short-circuit; policy rejections are silent.
func (e *Engine) handleMonitorTick() {
	if e.sendInFlight || !e.power.awake() {
		return
	}

	content, err := e.cfg.Clipboard.Read(e.runCtx)
	if err != nil {
		e.logger.Debug("clipboard read failed", "error", err)
		return
	}
	if content.Empty {
		return
	}

	payload := canonicalPayload(content)
	if len(payload) == 0 {
		return
	}

	// Fingerprinting large payloads moves off the loop so the actor is
	// never blocked on hashing.
	if len(payload) > offloadThreshold {
		e.sendInFlight = true
		go func() {
			fp := clip.Fingerprint(payload)
			e.post(func() {
				e.sendInFlight = false
				e.continueSend(content, payload, fp)
			})
		}()
		return
	}

	e.continueSend(content, payload, clip.Fingerprint(payload))
}

// continueSend runs the pipeline steps after fingerprinting. Loop goroutine
// only.
func (e *Engine) continueSend(content ports.Content, payload []byte, fp string) {
	if e.dedup.unchangedLocal(fp) {
		return
	}
	e.dedup.observeLocal(fp)
	e.markActivity()

	ctx, span := e.tracer.StartSendSpan(e.runCtx, string(content.Kind), len(payload))

	if !e.limiter.allow() {
		e.counters.droppedRateLimit.Add(1)
		logging.LogItemDropped(ctx, e.logger, "rate_limited")
		span.EndDropped("rate_limited")
		return
	}

	text := content.Text
	inline := content.Kind == clip.TypeText || content.Kind == clip.TypeHTML || content.Kind == clip.TypeMarkdown

	if inline && e.cfg.Scanner != nil {
		if verdict := e.cfg.Scanner.Detect(text); verdict.Sensitive {
			e.counters.droppedSensitive.Add(1)
			logging.LogItemDropped(ctx, e.logger, "sensitive:"+verdict.Kind)
			span.EndDropped("sensitive")
			return
		}
	}

	// Best-effort preprocessing; any failure falls back to the original
	// content.
	if inline && e.cfg.Preprocessor != nil {
		if out, err := e.cfg.Preprocessor.Process(ctx, text); err == nil && out != "" {
			if out != text {
				text = out
				payload = []byte(out)
				fp = clip.Fingerprint(payload)
			}
		} else if err != nil {
			e.logger.Debug("preprocess failed, using original content", "error", err)
		}
	}

	if e.dedup.isLastSent(fp) {
		e.counters.droppedDuplicate.Add(1)
		logging.LogItemDropped(ctx, e.logger, "duplicate")
		span.EndDropped("duplicate")
		return
	}

	item := &clip.Item{
		OwnerID:     e.cfg.OwnerID,
		Type:        content.Kind,
		DeviceType:  e.cfg.DeviceType,
		DeviceName:  e.cfg.DeviceName,
		TargetTypes: e.cfg.Settings.TargetDeviceTypes(),
		FileName:    content.FileName,
		CreatedAt:   e.clock.Now(),
	}

	e.sendInFlight = true
	go e.persistAndFinish(span, item, content, payload, text, fp)
}

// persistAndFinish encrypts (when configured), persists through the
// repository, and fires the best-effort side channels. It runs off the
// loop; completion re-enters via post and is dropped if the engine closed
// in the meantime.
func (e *Engine) persistAndFinish(span *tracing.SendSpan, item *clip.Item, content ports.Content, payload []byte, text, fp string) {
	inline := item.IsInline()

	if inline {
		item.Content = text
		if e.cfg.Gateway != nil && e.cfg.Gateway.Enabled() {
			wire, encrypted, err := e.cfg.Gateway.Encrypt([]byte(text))
			if err != nil {
				e.finishSendError(span, err)
				return
			}
			item.Content = wire
			item.Encrypted = encrypted
		}
	}
	span.SetEncrypted(item.Encrypted)

	var stored *clip.Item
	var err error
	switch item.Type {
	case clip.TypeImage:
		stored, err = e.cfg.Repository.InsertImage(e.runCtx, item, content.Data)
	case clip.TypeFile:
		stored, err = e.cfg.Repository.InsertFile(e.runCtx, item, content.FileName, content.Data)
	default:
		stored, err = e.cfg.Repository.Insert(e.runCtx, item)
	}
	if err != nil {
		e.finishSendError(span, err)
		return
	}

	span.SetItemID(stored.ID)
	e.fireSideEffects(stored, text)

	e.post(func() {
		e.sendInFlight = false
		e.dedup.recordSent(fp)
		if stored.ID != "" {
			e.seen.Add(stored.ID, struct{}{})
			e.lastSeenID = stored.ID
		}
		e.counters.sent.Add(1)
		logging.LogItemSent(e.runCtx, e.logger, stored.ID, string(stored.Type), len(payload), stored.Encrypted)
		span.End()
		e.observers.notify(stored)
	})
}

// finishSendError surfaces a transient persistence failure as a passing
// notification. No automatic retry.
func (e *Engine) finishSendError(span *tracing.SendSpan, err error) {
	span.EndWithError(err)
	e.post(func() {
		e.sendInFlight = false
		e.counters.sendErrors.Add(1)
		e.logger.Error("failed to sync clipboard item", "error", err)
		e.cfg.Notifier.Toast("Clipboard sync failed: "+err.Error(), ports.SeverityWarning)
	})
}

// fireSideEffects delivers the webhook and vault side channels. Both are
// fire-and-forget: errors are logged, never propagated, and shutdown does
// not wait for them.
func (e *Engine) fireSideEffects(item *clip.Item, text string) {
	if e.cfg.Webhook != nil && e.cfg.Settings.WebhookEnabled() {
		url := e.cfg.Settings.WebhookURL()
		if url != "" {
			go func() {
				if err := e.cfg.Webhook.Send(e.runCtx, url, item); err != nil {
					logging.LogSideEffectFailed(e.runCtx, e.logger, "webhook", err)
				}
			}()
		}
	}

	if e.cfg.Vault != nil && e.cfg.Settings.VaultEnabled() && item.IsInline() && text != "" {
		path := e.cfg.Settings.VaultPath()
		if path != "" {
			go func() {
				if err := e.cfg.Vault.Append(e.runCtx, path, text, e.clock.Now()); err != nil {
					logging.LogSideEffectFailed(e.runCtx, e.logger, "vault", err)
				}
			}()
		}
	}
}

// canonicalPayload returns the bytes fingerprints are computed over: the
// pre-encryption text for inline items, raw bytes otherwise.
func canonicalPayload(content ports.Content) []byte {
	switch content.Kind {
	case clip.TypeImage, clip.TypeFile:
		return content.Data
	default:
		return []byte(content.Text)
	}
}
