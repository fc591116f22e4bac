package hooks

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// responseCaptureLimit caps how much of an endpoint's response body is kept
// in the delivery log.
const responseCaptureLimit = 2000

const defaultDeliveryTimeout = 10 * time.Second

// Result is the tagged outcome of one delivery attempt. Err is set only when
// the request could not be completed at all; an HTTP error status is still a
// delivered outcome.
type Result struct {
	StatusCode int
	Body       string
	Err        error
}

func (r Result) Delivered() bool {
	return r.Err == nil
}

// Dispatcher performs single-attempt HTTP deliveries. There is no retry and
// no queueing; one call, one outcome.
type Dispatcher struct {
	client *http.Client
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &Dispatcher{client: &http.Client{Timeout: timeout}}
}

// Deliver issues the request and captures the response. GET and HEAD omit
// the body even when one was rendered. The response body is read
// best-effort and truncated to responseCaptureLimit characters.
func (d *Dispatcher) Deliver(ctx context.Context, url, method string, headers map[string]string, body *string) Result {
	if method == "" {
		method = http.MethodPost
	}
	method = strings.ToUpper(method)

	var reqBody io.Reader
	if body != nil && method != http.MethodGet && method != http.MethodHead {
		reqBody = strings.NewReader(*body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return Result{Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		text = nil
	}

	return Result{StatusCode: resp.StatusCode, Body: truncate(string(text), responseCaptureLimit)}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
