// Package transport sends a request payload to the responses endpoint.
package transport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultTimeout applies when the configured timeout is not positive.
const DefaultTimeout = 60 * time.Second

var (
	// ErrWriteFailed is returned when the payload cannot be persisted.
	ErrWriteFailed = errors.New("write payload")
	// ErrNotInvocable is returned when the request tool cannot be started.
	ErrNotInvocable = errors.New("invoke request tool")
	// ErrCallFailed is returned when the request completes unsuccessfully.
	ErrCallFailed = errors.New("call failed")
)

// Request is a single POST to the responses endpoint.
type Request struct {
	URL     string
	APIKey  string
	Body    []byte
	Timeout time.Duration
}

// Response holds the raw response body.
type Response struct {
	Body []byte
}

// Transport delivers a request and returns the full response body.
type Transport interface {
	Send(ctx context.Context, req Request) (Response, error)
}

// CallError carries the captured output of a failed call.
type CallError struct {
	Body string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCallFailed, e.Body)
}

// Is reports ErrCallFailed so callers can match with errors.Is.
func (e *CallError) Is(target error) bool {
	return target == ErrCallFailed
}

// JoinURL joins base and endpoint with exactly one slash between them.
func JoinURL(base, endpoint string) string {
	baseSlash := strings.HasSuffix(base, "/")
	endSlash := strings.HasPrefix(endpoint, "/")
	switch {
	case baseSlash && endSlash:
		return base + endpoint[1:]
	case !baseSlash && !endSlash:
		return base + "/" + endpoint
	default:
		return base + endpoint
	}
}

const maxTimeoutMS = math.MaxInt64 / int64(time.Millisecond)

// EffectiveTimeout converts a configured timeout in milliseconds.
func EffectiveTimeout(ms int64) time.Duration {
	if ms <= 0 {
		return DefaultTimeout
	}
	if ms > maxTimeoutMS {
		ms = maxTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

func bearer(apiKey string) string {
	return "Bearer " + apiKey
}
