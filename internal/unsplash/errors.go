package unsplash

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMissingPhotoID is returned by Photo when called without an id.
var ErrMissingPhotoID = errors.New("unsplash: photo id is required")

// ErrInvalidDownloadLocation is returned by TrackDownload for URLs that do
// not point at the API host.
var ErrInvalidDownloadLocation = errors.New("unsplash: invalid download location")

type Kind int

const (
	// KindUpstream is any non-200 answer from the API.
	KindUpstream Kind = iota + 1
	KindMalformedResponse
	KindTimeout
	// KindTransport covers failures below HTTP, e.g. DNS or refused connections.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindUpstream:
		return "upstream_error"
	case KindMalformedResponse:
		return "malformed_response"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport_error"
	}
	return "unknown"
}

// APIError describes a failed call to the photo API. It is always returned
// as a value; the client never retries.
type APIError struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindUpstream:
		return fmt.Sprintf("unsplash: API request failed with code %d", e.Status)
	case KindMalformedResponse:
		return "unsplash: malformed response body"
	case KindTimeout:
		return "unsplash: request timed out"
	}
	if e.Err != nil {
		return fmt.Sprintf("unsplash: %s: %v", e.Kind, e.Err)
	}
	return "unsplash: " + e.Kind.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Messages returns the human readable messages the API put in its error
// payload ({"errors": [...]}), if any.
func (e *APIError) Messages() []string {
	if e.Body == "" || !gjson.Valid(e.Body) {
		return nil
	}
	var msgs []string
	gjson.Get(e.Body, "errors").ForEach(func(_, v gjson.Result) bool {
		if s := strings.TrimSpace(v.String()); s != "" {
			msgs = append(msgs, s)
		}
		return true
	})
	if len(msgs) == 0 {
		if s := gjson.Get(e.Body, "message").String(); s != "" {
			msgs = append(msgs, s)
		}
	}
	return msgs
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindUpstream && apiErr.Status == http.StatusNotFound
}
