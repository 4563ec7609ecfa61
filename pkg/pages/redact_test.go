package pages

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMaskName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", ""},
		{"a", "*"},
		{"ab", "**"},
		{"secret-site", "se*********"},
		{"héllo", "hé***"},
	}

	for _, tt := range tests {
		if got := MaskName(tt.name); got != tt.want {
			t.Errorf("MaskName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMaskIn(t *testing.T) {
	got := MaskIn("secret-site", "https://1a2b3c.secret-site.pages.dev")
	if want := "https://1a2b3c.se*********.pages.dev"; got != want {
		t.Errorf("MaskIn() = %q, want %q", got, want)
	}
	if got := MaskIn("", "unchanged"); got != "unchanged" {
		t.Errorf("MaskIn(empty project) = %q", got)
	}
}

func TestRedactError(t *testing.T) {
	cause := fmt.Errorf("DELETE /pages/projects/secret-site/deployments/d1: %w", context.Canceled)

	err := RedactError("secret-site", cause)
	if got, want := err.Error(), "DELETE /pages/projects/se*********/deployments/d1: context canceled"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("redacted error no longer matches its cause")
	}
	if RedactError("secret-site", nil) != nil {
		t.Error("RedactError(nil) != nil")
	}
	if RedactError("", cause) != cause {
		t.Error("RedactError with no project should return err unchanged")
	}
}
