package logging

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
)

const mask = "***"

// Redactor masks credentials in log output.
type Redactor struct {
	mu       sync.RWMutex
	secrets  []string
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and its replacement.
type redactPattern struct {
	name    string
	regex   *regexp.Regexp
	replace func(string) string
}

// Built-in pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternAuthHeader  = "auth_header"
	PatternEmail       = "email"
)

// NewRedactor returns a Redactor that masks the given secrets and the
// built-in credential patterns.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{}
	r.addDefaultPatterns()
	for _, s := range secrets {
		r.AddSecret(s)
	}
	return r
}

func (r *Redactor) addDefaultPatterns() {
	bearer := regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	header := regexp.MustCompile(`(?i)(x-auth-key|x-auth-email|api[-_]?key|api[-_]?token)([:=]\s*)[^\s,;]+`)
	email := regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	r.patterns = []*redactPattern{
		{name: PatternBearerToken, regex: bearer, replace: func(string) string { return "Bearer " + mask }},
		{name: PatternAuthHeader, regex: header, replace: func(s string) string {
			return header.ReplaceAllString(s, "${1}${2}"+mask)
		}},
		{name: PatternEmail, regex: email, replace: RedactEmail},
	}
}

// AddSecret registers a literal value to mask. Empty values are ignored.
func (r *Redactor) AddSecret(secret string) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.secrets {
		if s == secret {
			return
		}
	}
	r.secrets = append(r.secrets, secret)
	// Longest first so a secret containing another is masked whole.
	sort.Slice(r.secrets, func(i, j int) bool { return len(r.secrets[i]) > len(r.secrets[j]) })
}

// RedactString masks secrets and credential patterns in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	r.mu.RLock()
	for _, s := range r.secrets {
		value = strings.ReplaceAll(value, s, mask)
	}
	r.mu.RUnlock()

	for _, p := range r.patterns {
		value = p.regex.ReplaceAllStringFunc(value, p.replace)
	}
	return value
}

// RedactAttr masks an attribute, recursing into groups.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		group := v.Group()
		redacted := make([]slog.Attr, len(group))
		for i, ga := range group {
			redacted[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if isSensitiveKey(a.Key) {
		if v.Kind() == slog.KindString && v.String() == "" {
			return a
		}
		return slog.String(a.Key, mask)
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// isSensitiveKey reports whether a key name indicates a credential.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "secret", "token", "api_key", "apikey", "authorization",
	}
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactEmail redacts an email address partially (shows first char and domain).
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username, domain := parts[0], parts[1]
	if len(username) == 0 {
		return mask + "@" + domain
	}
	return string(username[0]) + mask + "@" + domain
}

// redactHandler applies a Redactor to every record.
type redactHandler struct {
	next     slog.Handler
	redactor *Redactor
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.redactor.RedactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactor.RedactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactor.RedactAttr(a)
	}
	return &redactHandler{next: h.next.WithAttrs(redacted), redactor: h.redactor}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name), redactor: h.redactor}
}
