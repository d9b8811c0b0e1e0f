// Package security provides the secret scanner that gates auto-send of text
// payloads: keys, tokens, and card numbers are silently held back.
package security

import (
	"regexp"
	"strings"

	"github.com/ghostcopy/ghostd/internal/application/ports"
)

// pattern pairs a detection kind with its regular expression.
type pattern struct {
	kind string
	re   *regexp.Regexp
}

var defaultPatterns = []pattern{
	{"private_key", regexp.MustCompile(`-----BEGIN\s+(RSA|EC|DSA|OPENSSH|PGP|ENCRYPTED)?\s*PRIVATE KEY`)},
	{"aws_access_key", regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"github_token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"slack_token", regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`)},
	{"jwt", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`)},
	{"api_key_assignment", regexp.MustCompile(`(?i)\b(api[_-]?key|secret[_-]?key|access[_-]?token|client[_-]?secret|password)\b\s*[:=]\s*\S{8,}`)},
	{"card_number", regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`)},
}

// Scanner detects sensitive content in text payloads.
type Scanner struct {
	patterns []pattern
}

// NewScanner creates a Scanner with the default detection patterns.
func NewScanner() *Scanner {
	return &Scanner{patterns: defaultPatterns}
}

// Detect scans text for secrets and card numbers. Card-number candidates
// must additionally pass a Luhn check to keep false positives down.
func (s *Scanner) Detect(text string) ports.Verdict {
	for _, p := range s.patterns {
		if !p.re.MatchString(text) {
			continue
		}
		if p.kind == "card_number" {
			if !containsLuhnValid(p.re.FindAllString(text, -1)) {
				continue
			}
		}
		return ports.Verdict{Sensitive: true, Kind: p.kind}
	}
	return ports.Verdict{}
}

// containsLuhnValid reports whether any candidate digit run passes the Luhn
// checksum.
func containsLuhnValid(candidates []string) bool {
	for _, c := range candidates {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, c)
		if len(digits) >= 13 && len(digits) <= 19 && luhnValid(digits) {
			return true
		}
	}
	return false
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
