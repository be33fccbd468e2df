package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DoyleJ11/iem-roster/internal/roster"
)

const DefaultPath = "/api/redistributed"

// FetchMessage is the only text a display ever shows for a failed read.
const FetchMessage = "Failed to fetch classifications"

var ErrNoBaseURL = errors.New("upstream base url is empty")

// FetchError is a failed read of the roster endpoint: either a non-2xx
// status or a transport failure.
type FetchError struct {
	Status int
	Err    error
}

// Error returns the display message only; Status and Err are for logs.
func (e *FetchError) Error() string { return FetchMessage }

func (e *FetchError) Unwrap() error { return e.Err }

type Client struct {
	BaseURL string
	Path    string
	HTTP    *http.Client
}

func NewClient(baseURL, path string, timeout time.Duration) *Client {
	if path == "" {
		path = DefaultPath
	}
	return &Client{
		BaseURL: baseURL,
		Path:    path,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) url() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.Path, "/")
}

// Fetch reads the current roster in backend order.
func (c *Client) Fetch(ctx context.Context) ([]roster.Entry, error) {
	if c.BaseURL == "" {
		return nil, &FetchError{Err: ErrNoBaseURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(), nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &FetchError{Status: res.StatusCode}
	}

	return roster.Decode(res.Body)
}
