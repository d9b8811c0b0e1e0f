package clip

import "testing"

func TestDetectTextType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ContentType
	}{
		{"plain sentence", "just some ordinary text", TypeText},
		{"empty", "", TypeText},
		{"whitespace only", "   \n\t ", TypeText},
		{"doctype", "<!DOCTYPE html><html><body>hi</body></html>", TypeHTML},
		{"xml prolog", `<?xml version="1.0"?><note>hi</note>`, TypeHTML},
		{"div fragment", "<div class=\"x\">content</div>", TypeHTML},
		{"paragraph fragment", "<p>hello</p>", TypeHTML},
		{"angle brackets without tags", "a < b and b > c", TypeText},
		{"markdown heading", "# Title\n\nBody text", TypeMarkdown},
		{"fenced code", "```go\nfunc main() {}\n```", TypeMarkdown},
		{"markdown link", "see [the docs](https://example.com) for more", TypeMarkdown},
		{"bullet list", "- first\n- second\n- third", TypeMarkdown},
		{"hyphenated prose is not a list", "well-known fact", TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTextType(tt.text); got != tt.want {
				t.Errorf("DetectTextType(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}
