package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormat        = errors.New("format error")
	ErrExtraction    = errors.New("audio extraction error")
	ErrTranscription = errors.New("transcription error")
	ErrRemoteService = errors.New("remote service error")
	ErrConfiguration = errors.New("configuration error")
	ErrBusy          = errors.New("job already active")
	ErrCancelled     = errors.New("cancelled")
)

// Wrap builds an error message that carries operation context while tagging it
// with marker so callers can classify it with errors.Is.
func Wrap(marker error, op, message string, err error) error {
	detail := buildDetail(op, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short name for the marker carried by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrTranscription):
		return "transcription"
	case errors.Is(err, ErrRemoteService):
		return "remote_service"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrBusy):
		return "busy"
	default:
		return "internal"
	}
}

func buildDetail(op, message string) string {
	parts := make([]string, 0, 2)
	if op = strings.TrimSpace(op); op != "" {
		parts = append(parts, op)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
