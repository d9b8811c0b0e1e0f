package clip

import (
	"bytes"
	"strings"
	"testing"
)

func TestFingerprintSmallPayloadsHashInFull(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	c := Fingerprint([]byte("hello!"))

	if !strings.HasPrefix(a, "full:") {
		t.Errorf("small payload fingerprint = %q, want full: prefix", a)
	}
	if a != b {
		t.Error("identical payloads must fingerprint identically")
	}
	if a == c {
		t.Error("different payloads must fingerprint differently")
	}
}

func TestFingerprintLargePayloadsAreSampled(t *testing.T) {
	big := bytes.Repeat([]byte("x"), sampleThreshold+1)
	fp := Fingerprint(big)
	if !strings.HasPrefix(fp, "sampled:") {
		t.Fatalf("large payload fingerprint = %q, want sampled: prefix", fp)
	}

	// A change in the sampled head region is detected.
	head := append([]byte(nil), big...)
	head[0] = 'y'
	if Fingerprint(head) == fp {
		t.Error("change in the first sampled region should alter the fingerprint")
	}

	// A change in the sampled tail region is detected.
	tail := append([]byte(nil), big...)
	tail[len(tail)-1] = 'y'
	if Fingerprint(tail) == fp {
		t.Error("change in the last sampled region should alter the fingerprint")
	}

	// A length change alone is detected even when both ends agree.
	longer := bytes.Repeat([]byte("x"), sampleThreshold+2)
	if Fingerprint(longer) == fp {
		t.Error("length change should alter the fingerprint")
	}
}

func TestFingerprintMiddleChangesAreInvisibleWhenSampled(t *testing.T) {
	// The sampling trade-off: a change strictly between the sampled
	// regions of two equal-length payloads goes undetected.
	a := bytes.Repeat([]byte("x"), sampleThreshold+100)
	b := append([]byte(nil), a...)
	b[len(b)/2] = 'y'

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("middle-only change of a sampled payload should not alter the fingerprint")
	}
}

func TestFingerprintBoundary(t *testing.T) {
	atLimit := bytes.Repeat([]byte("x"), sampleThreshold)
	if !strings.HasPrefix(Fingerprint(atLimit), "full:") {
		t.Error("payload exactly at the threshold should hash in full")
	}
}

func TestFingerprintText(t *testing.T) {
	if FingerprintText("abc") != Fingerprint([]byte("abc")) {
		t.Error("FingerprintText must agree with Fingerprint")
	}
}
