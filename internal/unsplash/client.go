package unsplash

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"
	DefaultTimeout = 5 * time.Second
)

// Client talks to the Unsplash API. Each call is exactly one GET request:
// no retries, no caching, no backoff.
type Client struct {
	http      *http.Client
	accessKey string
	baseURL   string
	log       *logrus.Entry
}

type Option func(*Client)

// WithTimeout sets the per-request timeout of the client's own http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func NewClient(accessKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		accessKey: accessKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       logrus.WithField("component", "unsplash"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request issues a GET to path (relative to the base URL, or an absolute URL
// handed out by a previous response) and returns the parsed JSON body.
// Failures are returned as *APIError.
func (c *Client) Request(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	endpoint := endpointLabel(path)
	target := c.resolve(path, params)

	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.log.WithError(err).Error("failed to create http request")
		return gjson.Result{}, &APIError{Kind: KindTransport, Err: err}
	}
	getReq.Header.Set("Accept-Version", "v1")
	getReq.Header.Set("Authorization", "Client-ID "+c.accessKey)

	started := time.Now()
	resp, err := c.http.Do(getReq)
	if err != nil {
		apiErr := classify(err)
		observe(endpoint, apiErr.Kind.String(), started)
		c.log.WithFields(logrus.Fields{"endpoint": endpoint, "kind": apiErr.Kind}).WithError(err).Warn("failed to fetch")
		return gjson.Result{}, apiErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := classify(err)
		observe(endpoint, apiErr.Kind.String(), started)
		c.log.WithField("endpoint", endpoint).WithError(err).Warn("failed to read response")
		return gjson.Result{}, apiErr
	}

	if resp.StatusCode != http.StatusOK {
		observe(endpoint, KindUpstream.String(), started)
		c.log.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Warn("upstream error")
		return gjson.Result{}, &APIError{Kind: KindUpstream, Status: resp.StatusCode, Body: string(body)}
	}

	if !gjson.ValidBytes(body) {
		observe(endpoint, KindMalformedResponse.String(), started)
		c.log.WithField("endpoint", endpoint).Warn("failed to decode response")
		return gjson.Result{}, &APIError{Kind: KindMalformedResponse, Status: resp.StatusCode, Body: string(body)}
	}

	observe(endpoint, "ok", started)
	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"duration": time.Since(started).Round(time.Millisecond),
	}).Debug("fetched")
	return gjson.ParseBytes(body), nil
}

func (c *Client) resolve(path string, params url.Values) string {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(params) == 0 {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + params.Encode()
}

func classify(err error) *APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Kind: KindTimeout, Err: err}
	}
	return &APIError{Kind: KindTransport, Err: err}
}
