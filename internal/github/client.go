package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

// defaultUserAgent identifies issue-filing traffic when no build-specific
// agent is configured.
const defaultUserAgent = "deployverify"

// Client wraps the slice of the GitHub REST API the issue publisher needs.
type Client struct {
	api  *github.Client
	http *http.Client
}

type options struct {
	userAgent string
	verbose   bool
	// writer receives verbose API logs (stderr by default) so stdout stays
	// clean for the console and emit sinks.
	writer io.Writer
}

type Option func(*options)

// WithUserAgent tags API requests with a build-specific agent string.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

func WithVerbose(enabled bool, writer io.Writer) Option {
	return func(o *options) {
		o.verbose = enabled
		o.writer = writer
	}
}

// apiTrace logs one line per issue-API request and response, with latency,
// when verbose logging is enabled.
type apiTrace struct {
	next http.RoundTripper
	w    io.Writer
}

func (t *apiTrace) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	fmt.Fprintf(t.w, "[verbose] issue api: %s %s\n", req.Method, req.URL)
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		fmt.Fprintf(t.w, "[verbose] issue api: error after %s: %v\n", elapsed, err)
		return resp, err
	}
	fmt.Fprintf(t.w, "[verbose] issue api: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), elapsed)
	return resp, nil
}

// NewClient builds the issue-filing client. An empty token is allowed so
// verbose dry runs against public repos still produce request traces; the
// API itself will reject unauthenticated writes.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{userAgent: defaultUserAgent}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	transport := http.DefaultTransport
	if o.verbose {
		w := o.writer
		if w == nil {
			w = os.Stderr
		}
		transport = &apiTrace{next: transport, w: w}
	}
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   transport,
		}
	}
	hc := &http.Client{Transport: transport}

	api := github.NewClient(hc)
	api.UserAgent = o.userAgent
	return &Client{api: api, http: hc}, nil
}
