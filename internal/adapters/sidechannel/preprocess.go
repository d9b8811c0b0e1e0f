package sidechannel

import (
	"context"
	"strings"

	"github.com/ghostcopy/ghostd/internal/application/ports"
)

// NormalizingPreprocessor rewrites outgoing text before it is fingerprinted
// and sent: line endings are normalized to \n and trailing whitespace is
// stripped from each line, so the same visible content copied on different
// platforms deduplicates to the same item.
type NormalizingPreprocessor struct{}

var _ ports.Preprocessor = (*NormalizingPreprocessor)(nil)

// NewNormalizingPreprocessor creates the line-ending normalizer.
func NewNormalizingPreprocessor() *NormalizingPreprocessor {
	return &NormalizingPreprocessor{}
}

// Process normalizes content. Never fails.
func (p *NormalizingPreprocessor) Process(_ context.Context, content string) (string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n"), nil
}
