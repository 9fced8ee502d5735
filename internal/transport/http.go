package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// HTTP sends requests in-process with net/http.
// Status codes of 400 and above fail the call like curl --fail.
type HTTP struct {
	Client *http.Client
}

// NewHTTP returns an HTTP transport. A nil client uses a fresh http.Client.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTP{Client: client}
}

// Name identifies the transport in user-facing errors.
func (h *HTTP) Name() string {
	return "http client"
}

// Send implements Transport.
func (h *HTTP) Send(ctx context.Context, req Request) (Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrNotInvocable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearer(req.APIKey))

	log.Debug().Str("url", req.URL).Dur("timeout", timeout).Msg("sending http request")
	resp, err := h.Client.Do(httpReq)
	if err != nil {
		return Response{}, &CallError{Body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &CallError{Body: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		detail := string(body)
		if detail == "" {
			detail = resp.Status
		}
		return Response{Body: body}, &CallError{Body: detail}
	}
	return Response{Body: body}, nil
}
