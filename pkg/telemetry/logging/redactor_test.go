package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor("abc123secret", "abc123")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "deleting deployment d1", "deleting deployment d1"},
		{"registered secret", "token abc123secret used", "token *** used"},
		{"shorter secret", "key abc123 used", "key *** used"},
		{"bearer", "Authorization: Bearer xyz.789", "Authorization: Bearer ***"},
		{"auth key header", "X-Auth-Key: 0123456789abcdef", "X-Auth-Key: ***"},
		{"email", "X-Auth-Email=ops@example.com", "X-Auth-Email=***"},
		{"bare email", "owner dev@example.org", "owner d***@example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_RedactAttr(t *testing.T) {
	r := NewRedactor("s3cr3t-value")

	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"sensitive key", slog.String("api_token", "whatever"), "***"},
		{"empty sensitive", slog.String("api_token", ""), ""},
		{"non-string sensitive", slog.Int("token_count", 3), "***"},
		{"error value", slog.Any("error", errors.New("bad s3cr3t-value")), "bad ***"},
		{"plain", slog.String("project", "blog"), "blog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.RedactAttr(tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("RedactAttr(%v) = %q, want %q", tt.attr, got.Value.String(), tt.want)
			}
		})
	}
}

func TestRedactor_Group(t *testing.T) {
	r := NewRedactor()

	got := r.RedactAttr(slog.Group("auth", slog.String("api_key", "k"), slog.String("user", "u")))
	group := got.Value.Group()
	if len(group) != 2 {
		t.Fatalf("group = %v", group)
	}
	if group[0].Value.String() != "***" || group[1].Value.String() != "u" {
		t.Errorf("group = %v", group)
	}
}

func TestRedactor_AddSecretIgnoresBlank(t *testing.T) {
	r := NewRedactor()
	r.AddSecret("   ")
	r.AddSecret("")

	if got := r.RedactString("nothing to hide"); got != "nothing to hide" {
		t.Errorf("RedactString() = %q", got)
	}
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "u***@example.com"},
		{"@example.com", "***@example.com"},
		{"invalid", "invalid"},
	}

	for _, tt := range tests {
		if got := RedactEmail(tt.input); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
