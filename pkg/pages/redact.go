package pages

import "strings"

// MaskName keeps the first two characters of a project name and masks the
// rest with asterisks.
func MaskName(name string) string {
	runes := []rune(name)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-2)
}

// MaskIn replaces every occurrence of project in s with MaskName(project).
func MaskIn(project, s string) string {
	if project == "" {
		return s
	}
	return strings.ReplaceAll(s, project, MaskName(project))
}

// RedactError returns an error whose message has project masked. It still
// unwraps to err, so errors.Is and errors.As keep working.
func RedactError(project string, err error) error {
	if err == nil || project == "" {
		return err
	}
	return &redactedError{msg: MaskIn(project, err.Error()), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
