package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIO            = errors.New("io error")
	ErrNetwork       = errors.New("network error")
	ErrNotFound      = errors.New("not found")
	ErrDownload      = errors.New("download failed")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Kind names an error classification for outcome reporting.
type Kind string

const (
	KindIO            Kind = "io"
	KindNetwork       Kind = "network"
	KindNotFound      Kind = "not-found"
	KindDownload      Kind = "download"
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindUnknown       Kind = "unknown"
)

// Wrap builds an error message that includes component context while
// tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the outcome kind the batch report uses.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrDownload):
		return KindDownload
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindUnknown
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
