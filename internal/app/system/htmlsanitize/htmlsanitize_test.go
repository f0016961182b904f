package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/ssoadmin/internal/app/system/htmlsanitize"
)

func TestMessage_Empty(t *testing.T) {
	if got := htmlsanitize.Message("   "); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestMessage_PlainText(t *testing.T) {
	if got := htmlsanitize.Message("SSO settings saved with warnings"); got != "SSO settings saved with warnings" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestMessage_KeepsInlineMarkup(t *testing.T) {
	input := "<strong>Metadata</strong> URL is <code>unreachable</code>"
	if got := htmlsanitize.Message(input); string(got) != input {
		t.Errorf("expected inline markup preserved, got %q", got)
	}
}

func TestMessage_RemovesScript(t *testing.T) {
	got := string(htmlsanitize.Message("Saved<script>alert('xss')</script>"))
	if got != "Saved" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestMessage_RemovesBlockElements(t *testing.T) {
	got := string(htmlsanitize.Message(`<div onclick="x()"><p>Text</p></div>`))
	if strings.Contains(got, "<div") || strings.Contains(got, "<p>") || strings.Contains(got, "onclick") {
		t.Errorf("expected block elements stripped, got %q", got)
	}
	if !strings.Contains(got, "Text") {
		t.Errorf("expected text kept, got %q", got)
	}
}

func TestMessage_Links(t *testing.T) {
	got := string(htmlsanitize.Message(`see <a href="https://docs.example.com/sso">docs</a>`))
	if !strings.Contains(got, `href="https://docs.example.com/sso"`) || !strings.Contains(got, "nofollow") {
		t.Errorf("expected safe link with nofollow, got %q", got)
	}

	bad := string(htmlsanitize.Message(`<a href="javascript:alert(1)">x</a>`))
	if strings.Contains(bad, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", bad)
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<b>bold</b> text", "bold text"},
		{"<script>alert(1)</script>ok", "ok"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
