package sync

// deduplicator holds the two independent fingerprint slots used for send
// suppression and local-change detection. Both slots hold fingerprints of
// the canonical pre-encryption payload, so a device pair with bidirectional
// auto-send never ping-pongs the same content.
type deduplicator struct {
	// lastSent is the fingerprint of the most recently sent payload.
	lastSent string

	// lastMonitored is the fingerprint last observed on the local
	// clipboard by the monitor, used to detect "unchanged since last
	// poll".
	lastMonitored string
}

func newDeduplicator() *deduplicator {
	return &deduplicator{}
}

// unchangedLocal reports whether the local clipboard fingerprint matches
// the previous monitor observation.
func (d *deduplicator) unchangedLocal(fp string) bool {
	return fp != "" && fp == d.lastMonitored
}

// observeLocal records the latest monitor observation.
func (d *deduplicator) observeLocal(fp string) {
	d.lastMonitored = fp
}

// isLastSent reports whether fp matches the most recently sent payload.
func (d *deduplicator) isLastSent(fp string) bool {
	return fp != "" && fp == d.lastSent
}

// recordSent records a successful outgoing send.
func (d *deduplicator) recordSent(fp string) {
	d.lastSent = fp
}

// recordApplied records a remote item applied to the local clipboard.
// Both slots are updated so the monitor neither re-detects nor re-sends
// the applied content.
func (d *deduplicator) recordApplied(fp string) {
	d.lastSent = fp
	d.lastMonitored = fp
}
