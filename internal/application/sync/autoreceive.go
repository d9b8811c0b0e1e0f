package sync

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
)

// decideReceive implements the auto-receive policy for a debounced inbound
// record. Always applies unconditionally; Never always prompts; Smart
// applies only when the local clipboard has not been manually modified
// within the staleness window.
func (e *Engine) decideReceive(item *clip.Item) {
	policy := e.cfg.Settings.ReceivePolicy()
	switch policy {
	case ports.ReceiveAlways:
		e.applyItem(item)
	case ports.ReceiveNever:
		e.promptApply(item)
	default: // smart
		window := time.Duration(ports.ClampStalenessMinutes(e.cfg.Settings.StalenessWindowMinutes())) * time.Minute
		if e.lastManualCopy.IsZero() || e.clock.Since(e.lastManualCopy) >= window {
			e.applyItem(item)
		} else {
			e.promptApply(item)
		}
	}
}

// promptApply surfaces an actionable notification whose action performs the
// same apply path on demand.
func (e *Engine) promptApply(item *clip.Item) {
	e.counters.prompted.Add(1)
	msg := fmt.Sprintf("New clipboard %s from %s", item.Type, item.DeviceName)
	e.cfg.Notifier.ActionableToast(msg, "Copy", func() {
		e.post(func() { e.applyItem(item) })
	})
}

// applyItem writes a remote item to the local clipboard: decrypt if needed,
// dispatch to the content-type-specific writer, then update the dedup slots
// so the monitor never echoes the applied content back. Failures notify and
// are never retried.
func (e *Engine) applyItem(item *clip.Item) {
	_, span := e.tracer.StartApplySpan(e.runCtx, item.ID, item.DeviceName)

	if item.IsInline() {
		text, err := e.inlinePayload(item)
		if err != nil {
			span.EndWithError(err)
			e.receiveFailed(item, err)
			return
		}
		span.SetDecrypted(item.Encrypted)

		var werr error
		switch item.Type {
		case clip.TypeHTML:
			werr = e.cfg.Clipboard.WriteHTML(e.runCtx, text, stripTags(text))
		default:
			werr = e.cfg.Clipboard.WriteText(e.runCtx, text)
		}
		if werr != nil {
			span.EndWithError(werr)
			e.receiveFailed(item, werr)
			return
		}
		span.End()
		e.finishApply(item, []byte(text))
		return
	}

	// Image and file payloads live in external storage; download off the
	// loop, then finish back on it.
	if e.applyInFlight {
		return
	}
	e.applyInFlight = true
	go func() {
		data, ok, err := e.cfg.Repository.DownloadFile(e.runCtx, item)
		e.post(func() {
			e.applyInFlight = false
			if err == nil && !ok {
				err = gerrors.ErrItemNotFound
			}
			if err != nil {
				span.EndWithError(err)
				e.receiveFailed(item, err)
				return
			}

			var werr error
			if item.Type == clip.TypeImage {
				werr = e.cfg.Clipboard.WriteImage(e.runCtx, data)
			} else {
				werr = e.cfg.Clipboard.WriteFile(e.runCtx, item.FileName, data)
			}
			if werr != nil {
				span.EndWithError(werr)
				e.receiveFailed(item, werr)
				return
			}
			span.End()
			e.finishApply(item, data)
		})
	}()
}

// inlinePayload returns the canonical text of an inline item, decrypting
// when the item was encrypted on the wire.
func (e *Engine) inlinePayload(item *clip.Item) (string, error) {
	if !item.Encrypted {
		return item.Content, nil
	}
	if e.cfg.Gateway == nil || !e.cfg.Gateway.Enabled() {
		return "", gerrors.NewDecryptionError("no passphrase configured", nil)
	}
	plain, err := e.cfg.Gateway.Decrypt(item.Content)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// finishApply records a successful apply: both dedup slots take the
// canonical fingerprint, activity is refreshed, and observers are told.
func (e *Engine) finishApply(item *clip.Item, payload []byte) {
	e.dedup.recordApplied(clip.Fingerprint(payload))
	e.lastActivity = e.clock.Now()
	e.counters.applied.Add(1)
	logging.LogItemApplied(e.runCtx, e.logger, item.ID, item.DeviceName, string(item.Type))
	e.observers.notify(item)
}

// receiveFailed surfaces a per-item receive failure. Decryption and format
// errors are terminal for the item; nothing is retried.
func (e *Engine) receiveFailed(item *clip.Item, err error) {
	e.counters.receiveErrors.Add(1)
	if gerrors.IsDecryptionError(err) {
		e.logger.Warn("could not decrypt inbound item", "item_id", item.ID, "error", err)
		e.cfg.Notifier.Toast("Could not decrypt a clipboard item; check that devices share the same passphrase", ports.SeverityError)
		return
	}
	e.logger.Error("failed to apply inbound item", "item_id", item.ID, "error", err)
	e.cfg.Notifier.Toast("Failed to apply clipboard item: "+err.Error(), ports.SeverityError)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags produces the plaintext fallback written alongside HTML content.
func stripTags(html string) string {
	return tagPattern.ReplaceAllString(html, "")
}
