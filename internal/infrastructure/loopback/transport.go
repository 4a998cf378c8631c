// Package loopback carries tool dispatches to the service's own endpoints,
// either through the in-process router or over HTTP.
package loopback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/task-api/internal/domain/tool"
)

// HandlerTransport serves dispatches through an http.Handler without a network hop.
// The handler is resolved lazily so the router can be built after the transport.
type HandlerTransport struct {
	handler func() http.Handler
}

// NewHandlerTransport creates a transport over the handler returned by resolve.
func NewHandlerTransport(resolve func() http.Handler) *HandlerTransport {
	return &HandlerTransport{handler: resolve}
}

func (t *HandlerTransport) Do(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	handler := t.handler()
	if handler == nil {
		return 0, nil, errors.New("router not ready")
	}

	target := path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		done <- recorder
	}()

	select {
	case recorder := <-done:
		return recorder.Code, recorder.Body.Bytes(), nil
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

// HTTPTransport sends dispatches to a running listener.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport creates a Resty-backed transport rooted at baseURL.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
	}
}

func (t *HTTPTransport) Do(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	req := t.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return 0, nil, err
	}
	raw := resp.RawBody()
	defer raw.Close()

	payload, err := io.ReadAll(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode(), payload, nil
}

var (
	_ tool.Transport = (*HandlerTransport)(nil)
	_ tool.Transport = (*HTTPTransport)(nil)
)
