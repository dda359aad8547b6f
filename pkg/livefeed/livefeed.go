// Package livefeed fetches raw current-affairs and history data from the
// RapidAPI "current affairs of India" service.
package livefeed

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Kind selects one of the feed endpoints.
type Kind string

const (
	TodayQuiz          Kind = "today-quiz"
	HistoryOfToday     Kind = "history-of-today"
	InternationalToday Kind = "international-today"
)

const (
	DefaultBaseURL = "https://current-affairs-of-india.p.rapidapi.com"
	DefaultHost    = "current-affairs-of-india.p.rapidapi.com"
	// maxBodySize caps what we keep of a response; the payload is truncated
	// again before it is embedded in an instruction.
	maxBodySize = 256 * 1024
)

// Doer is the part of fasthttp.Client the feed uses.
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// Config configures the feed client.
type Config struct {
	BaseURL string
	APIKey  string
	Host    string
	Timeout time.Duration
}

// Client fetches feed payloads as opaque text.
type Client struct {
	doer    Doer
	baseURL string
	apiKey  string
	host    string
	timeout time.Duration
}

func NewClient(cfg Config, doer Doer) *Client {
	if doer == nil {
		doer = &fasthttp.Client{
			Name:                "vardi-live-feed",
			MaxResponseBodySize: maxBodySize,
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		host:    cfg.Host,
		timeout: cfg.Timeout,
	}
}

// Fetch performs one GET against the feed. An empty payload ("", null, [] or
// {}) is reported as an empty string with no error.
func (c *Client) Fetch(ctx context.Context, kind Kind) (string, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/" + string(kind))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-rapidapi-key", c.apiKey)
	}
	req.Header.Set("x-rapidapi-host", c.host)

	if err := c.doer.DoTimeout(req, resp, timeout); err != nil {
		return "", fmt.Errorf("live feed %s: %w", kind, err)
	}
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return "", fmt.Errorf("live feed %s: unexpected status %d", kind, status)
	}

	body := bytes.TrimSpace(resp.Body())
	switch string(body) {
	case "", "null", "[]", "{}":
		log.Printf("📭 Live feed %s returned no data", kind)
		return "", nil
	}
	return string(body), nil
}
